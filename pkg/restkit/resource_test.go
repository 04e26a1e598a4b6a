package restkit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

func newTestHandler(t *testing.T, serverURL string) *restkit.HTTPRequestHandler {
	t.Helper()

	handler, err := restkit.NewHTTPRequestHandler(serverURL)
	require.NoError(t, err)

	return handler
}

func TestNewRESTResource(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, "https://api.example.com")

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()

		_, err := restkit.NewRESTResource("", "", handler)
		require.ErrorIs(t, err, restkit.ErrResourceNameRequired)
	})

	t.Run("requires a handler", func(t *testing.T) {
		t.Parallel()

		_, err := restkit.NewRESTResource("users", "", nil)
		require.ErrorIs(t, err, restkit.ErrHandlerRequired)
	})

	t.Run("path defaults to name", func(t *testing.T) {
		t.Parallel()

		resource, err := restkit.NewRESTResource("users", "", handler)
		require.NoError(t, err)
		assert.Equal(t, "users", resource.Name())
		assert.Equal(t, "users", resource.Path())
	})

	t.Run("path slashes are trimmed", func(t *testing.T) {
		t.Parallel()

		resource, err := restkit.NewRESTResource("users", "/api/v1/users/", handler)
		require.NoError(t, err)
		assert.Equal(t, "api/v1/users", resource.Path())
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRESTResource_Verbs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		wantMethod string
		wantPath   string
		call       func(context.Context, *restkit.RESTResource) (*restkit.Response, error)
	}{
		{
			name:       "List",
			wantMethod: "GET",
			wantPath:   "/users",
			call: func(ctx context.Context, r *restkit.RESTResource) (*restkit.Response, error) {
				return r.List(ctx, nil)
			},
		},
		{
			name:       "Get",
			wantMethod: "GET",
			wantPath:   "/users/42",
			call: func(ctx context.Context, r *restkit.RESTResource) (*restkit.Response, error) {
				return r.Get(ctx, "42", nil)
			},
		},
		{
			name:       "Create",
			wantMethod: "POST",
			wantPath:   "/users",
			call: func(ctx context.Context, r *restkit.RESTResource) (*restkit.Response, error) {
				return r.Create(ctx, map[string]string{"username": "admin"})
			},
		},
		{
			name:       "Update",
			wantMethod: "PUT",
			wantPath:   "/users/42",
			call: func(ctx context.Context, r *restkit.RESTResource) (*restkit.Response, error) {
				return r.Update(ctx, "42", map[string]string{"username": "admin"})
			},
		},
		{
			name:       "Delete",
			wantMethod: "DELETE",
			wantPath:   "/users/42",
			call: func(ctx context.Context, r *restkit.RESTResource) (*restkit.Response, error) {
				return r.Delete(ctx, "42", nil)
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.wantMethod, request.Method)
				assert.Equal(t, testCase.wantPath, request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL))
			require.NoError(t, err)

			resp, err := testCase.call(context.Background(), resource)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestRESTResource_ListQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "admin", request.URL.Query().Get("role"))
		writer.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(writer).Encode(map[string]any{"objects": []any{}})
	}))
	defer server.Close()

	resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL))
	require.NoError(t, err)

	resp, err := resource.List(context.Background(), url.Values{"role": []string{"admin"}})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRESTResource_Errors(t *testing.T) {
	t.Parallel()

	t.Run("get requires an id", func(t *testing.T) {
		t.Parallel()

		resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, "https://api.example.com"))
		require.NoError(t, err)

		_, err = resource.Get(context.Background(), "", nil)
		require.ErrorIs(t, err, restkit.ErrResourceIDRequired)
	})

	t.Run("errors carry the resource name and id", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error": "no such user"}`))
		}))
		defer server.Close()

		resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL))
		require.NoError(t, err)

		_, err = resource.Get(context.Background(), "42", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting users 42")

		reqErr := &restkit.RequestError{}
		ok := errors.As(err, &reqErr)
		require.True(t, ok)
		assert.Equal(t, 404, reqErr.StatusCode)
		assert.Contains(t, string(reqErr.Content), "no such user")
	})

	t.Run("list errors carry the resource name", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL))
		require.NoError(t, err)

		_, err = resource.List(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing users")
		assert.True(t, restkit.IsServerError(err))
	})
}

func TestRESTResource_Filters(t *testing.T) {
	t.Parallel()

	t.Run("filters run in order before the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "filtered", request.Header.Get("X-Filter"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		executionOrder := []string{}

		first := func(ctx context.Context, req *restkit.Request) error {
			executionOrder = append(executionOrder, "first")
			if req.Headers == nil {
				req.Headers = make(map[string]string)
			}
			req.Headers["X-Filter"] = "filtered"

			return nil
		}
		second := func(ctx context.Context, req *restkit.Request) error {
			executionOrder = append(executionOrder, "second")

			return nil
		}

		resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL), first, second)
		require.NoError(t, err)

		_, err = resource.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, executionOrder)
	})

	t.Run("filter error aborts the request", func(t *testing.T) {
		t.Parallel()

		called := false
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			called = true
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		failing := func(ctx context.Context, req *restkit.Request) error {
			return errInterceptorFailed
		}

		resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL), failing)
		require.NoError(t, err)

		_, err = resource.List(context.Background(), nil)
		require.Error(t, err)
		require.ErrorIs(t, err, errInterceptorFailed)
		assert.False(t, called)
	})
}

func TestRESTResource_IDEscaping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/users/a%2Fb", request.URL.EscapedPath())
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resource, err := restkit.NewRESTResource("users", "", newTestHandler(t, server.URL))
	require.NoError(t, err)

	_, err = resource.Get(context.Background(), "a/b", nil)
	require.NoError(t, err)
}
