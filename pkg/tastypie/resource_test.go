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

func newEntriesClient(t *testing.T, serverURL string) *tastypie.Client {
	t.Helper()

	client, err := tastypie.New(context.Background(), &tastypie.Config{
		Endpoint:         serverURL,
		DisableDiscovery: true,
	})
	require.NoError(t, err)

	return client
}

func TestResource_GetByURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{name: "full resource_uri", uri: "/api/v1/entries/42/"},
		{name: "without trailing slash", uri: "/api/v1/entries/42"},
		{name: "bare id", uri: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/entries/42", request.URL.Path)
				_ = json.NewEncoder(writer).Encode(map[string]string{"id": "42", "title": "First post"})
			}))
			defer server.Close()

			client := newEntriesClient(t, server.URL)

			entries, err := client.AddResource("entries")
			require.NoError(t, err)

			resp, err := entries.GetByURI(context.Background(), tt.uri)
			require.NoError(t, err)

			result, err := resp.Map()
			require.NoError(t, err)
			assert.Equal(t, "First post", result["title"])
		})
	}
}

func TestResource_GetByURI_Empty(t *testing.T) {
	client := newEntriesClient(t, "https://api.example.com")

	entries, err := client.AddResource("entries")
	require.NoError(t, err)

	_, err = entries.GetByURI(context.Background(), "/")
	require.ErrorIs(t, err, restkit.ErrResourceIDRequired)
}

func TestResource_Schema(t *testing.T) {
	t.Run("fetched once and memoized", func(t *testing.T) {
		schemaHits := 0
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			require.Equal(t, "/entries/schema", request.URL.Path)
			schemaHits++

			_ = json.NewEncoder(writer).Encode(map[string]any{
				"allowed_detail_http_methods": []string{"get", "post", "put", "delete"},
				"default_format":              "application/json",
				"fields": map[string]any{
					"title": map[string]any{"type": "string", "nullable": false},
				},
			})
		}))
		defer server.Close()

		client := newEntriesClient(t, server.URL)

		entries, err := client.AddResource("entries")
		require.NoError(t, err)

		schema, err := entries.Schema(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "application/json", schema["default_format"])

		again, err := entries.Schema(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, schemaHits)

		fields, ok := again["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "title")
	})

	t.Run("fetch failure is not memoized", func(t *testing.T) {
		schemaHits := 0
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			schemaHits++
			if schemaHits == 1 {
				writer.WriteHeader(http.StatusInternalServerError)

				return
			}

			_ = json.NewEncoder(writer).Encode(map[string]any{"default_format": "application/json"})
		}))
		defer server.Close()

		client := newEntriesClient(t, server.URL)

		entries, err := client.AddResource("entries")
		require.NoError(t, err)

		_, err = entries.Schema(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetching entries schema")

		schema, err := entries.Schema(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, schemaHits)
		assert.Equal(t, "application/json", schema["default_format"])
	})
}

func TestResource_CRUDThroughConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == "POST" && request.URL.Path == "/entries":
			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "First post", body["title"])
			writer.WriteHeader(http.StatusCreated)
		case request.Method == "DELETE" && request.URL.Path == "/entries/42":
			writer.WriteHeader(http.StatusNoContent)
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newEntriesClient(t, server.URL)

	entries, err := client.AddResource("entries")
	require.NoError(t, err)

	resp, err := entries.Create(context.Background(), map[string]string{"title": "First post"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	resp, err = entries.Delete(context.Background(), "42", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
