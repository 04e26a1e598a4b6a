//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// TestAPIIntegration_Discovery verifies the resource directory is served
// from the API root and every advertised resource gets a handler.
func TestAPIIntegration_Discovery(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := NewTestClient(t, config)

	endpoints := client.Endpoints()
	require.NotEmpty(t, endpoints, "API root advertised no resources")

	for name, endpoint := range endpoints {
		assert.NotEmpty(t, endpoint.ListEndpoint, "resource %s has no list endpoint", name)

		_, ok := client.Resource(name)
		assert.True(t, ok, "no handler registered for discovered resource %s", name)
	}

	t.Logf("Discovered %d resources", len(endpoints))
}

// TestAPIIntegration_Schema fetches and memoizes a resource schema.
func TestAPIIntegration_Schema(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := NewTestClient(t, config)
	ctx := context.Background()

	names := client.Resources()
	require.NotEmpty(t, names)

	resource, ok := client.Resource(names[0])
	require.True(t, ok)

	schema, err := resource.Schema(ctx)
	require.NoError(t, err, "Failed to fetch schema for %s", names[0])
	assert.NotEmpty(t, schema)
	assert.Contains(t, schema, "fields", "tastypie schemas describe their fields")

	// Second fetch serves the memoized copy
	again, err := resource.Schema(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema, again)
}

// TestAPIIntegration_RawRequest exercises the transport below the
// resource layer.
func TestAPIIntegration_RawRequest(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := NewTestClient(t, config)
	ctx := context.Background()

	resp, err := client.Handler().Do(ctx, &restkit.Request{
		Method: "GET",
		Path:   "/",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	directory, err := resp.Map()
	require.NoError(t, err, "API root is not a JSON object")
	assert.NotEmpty(t, directory)
}
