package tastypie_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
)

func TestNew(t *testing.T) {
	t.Run("requires a config", func(t *testing.T) {
		_, err := tastypie.New(context.Background(), nil)
		require.ErrorIs(t, err, restkit.ErrConfigRequired)
	})

	t.Run("requires an endpoint", func(t *testing.T) {
		_, err := tastypie.New(context.Background(), &tastypie.Config{})
		require.ErrorIs(t, err, tastypie.ErrEndpointRequired)
	})

	t.Run("normalizes the endpoint", func(t *testing.T) {
		client, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         "api.example.com/api/v1/",
			DisableDiscovery: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api/v1", client.BaseURL())
	})

	t.Run("rejects TLS skip outside development", func(t *testing.T) {
		_, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         "https://api.example.com",
			SkipTLSVerify:    true,
			DisableDiscovery: true,
		})
		require.ErrorIs(t, err, restkit.ErrSkipTLSOnlyInDev)
	})

	t.Run("allows TLS skip in development mode", func(t *testing.T) {
		t.Setenv("RESTKIT_DEV_MODE", "true")

		client, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         "https://api.example.com",
			SkipTLSVerify:    true,
			DisableDiscovery: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestClient_Auth(t *testing.T) {
	t.Run("api_key mechanism sends the ApiKey header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "ApiKey john.doe:abc123", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         server.URL,
			Username:         "john.doe",
			APIKey:           "abc123",
			DisableDiscovery: true,
		})
		require.NoError(t, err)

		_, err = client.Request(context.Background(), "GET", "/entries", nil, nil)
		require.NoError(t, err)
	})

	t.Run("basic mechanism sends basic credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			username, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "john.doe", username)
			assert.Equal(t, "secret", password)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         server.URL,
			Username:         "john.doe",
			Password:         "secret",
			AuthMechanism:    tastypie.AuthMechanismBasic,
			DisableDiscovery: true,
		})
		require.NoError(t, err)

		_, err = client.Request(context.Background(), "GET", "/entries", nil, nil)
		require.NoError(t, err)
	})

	t.Run("unknown mechanism fails", func(t *testing.T) {
		_, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         "https://api.example.com",
			Username:         "john.doe",
			APIKey:           "abc123",
			AuthMechanism:    "digest",
			DisableDiscovery: true,
		})
		require.ErrorIs(t, err, tastypie.ErrUnknownAuthMechanism)
	})
}

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/" {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		directory := map[string]tastypie.Endpoint{
			"entries": {ListEndpoint: "/api/v1/entries/", Schema: "/api/v1/entries/schema/"},
			"users":   {ListEndpoint: "/api/v1/users/", Schema: "/api/v1/users/schema/"},
		}
		_ = json.NewEncoder(writer).Encode(directory)
	}))
}

func TestClient_FindResources(t *testing.T) {
	t.Run("registers every advertised resource", func(t *testing.T) {
		server := newDirectoryServer(t)
		defer server.Close()

		client, err := tastypie.New(context.Background(), &tastypie.Config{Endpoint: server.URL})
		require.NoError(t, err)

		assert.Equal(t, []string{"entries", "users"}, client.Resources())

		entries, ok := client.Resource("entries")
		require.True(t, ok)
		assert.Equal(t, "entries", entries.Path())

		assert.Equal(t, "/api/v1/users/", client.Endpoints()["users"].ListEndpoint)
		assert.Equal(t, "/api/v1/users/schema/", client.Endpoints()["users"].Schema)
	})

	t.Run("keeps resources registered before discovery", func(t *testing.T) {
		server := newDirectoryServer(t)
		defer server.Close()

		client, err := tastypie.New(context.Background(), &tastypie.Config{
			Endpoint:         server.URL,
			DisableDiscovery: true,
		})
		require.NoError(t, err)

		_, err = client.AddResource("entries", restkit.WithPath("special/entries"))
		require.NoError(t, err)

		err = client.FindResources(context.Background())
		require.NoError(t, err)

		entries, ok := client.Resource("entries")
		require.True(t, ok)
		assert.Equal(t, "special/entries", entries.Path())

		users, ok := client.Resource("users")
		require.True(t, ok)
		assert.Equal(t, "users", users.Path())
	})

	t.Run("root failure surfaces from New", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := tastypie.New(context.Background(), &tastypie.Config{Endpoint: server.URL})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discovering resources")
	})
}

func TestNewWithAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "ApiKey admin:key-1", request.Header.Get("Authorization"))
		_ = json.NewEncoder(writer).Encode(map[string]tastypie.Endpoint{
			"entries": {ListEndpoint: "/api/v1/entries/", Schema: "/api/v1/entries/schema/"},
		})
	}))
	defer server.Close()

	client, err := tastypie.NewWithAPIKey(context.Background(), server.URL, "admin", "key-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"entries"}, client.Resources())
}
