package tastypie

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Resource wraps a REST resource with the tastypie-specific operations:
// lookup by resource_uri and schema introspection.
type Resource struct {
	restkit.Resource

	handler restkit.RequestHandler
	schema  map[string]any
}

func newResource(base restkit.Resource, handler restkit.RequestHandler) *Resource {
	return &Resource{Resource: base, handler: handler}
}

// GetByURI fetches a single object addressed by its resource_uri, the
// canonical identifier tastypie embeds in every object. The id is the last
// path segment of the URI.
func (r *Resource) GetByURI(ctx context.Context, uri string) (*restkit.Response, error) {
	id := strings.TrimSuffix(uri, "/")
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}

	return r.Get(ctx, id, nil)
}

// Schema returns the resource schema served from <resource>/schema. The
// schema is fetched on first use and memoized for the life of the resource.
func (r *Resource) Schema(ctx context.Context) (map[string]any, error) {
	if r.schema != nil {
		return r.schema, nil
	}

	resp, err := r.handler.Do(ctx, &restkit.Request{
		Method: "GET",
		Path:   r.Path() + "/schema",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s schema: %w", r.Name(), err)
	}

	var schema map[string]any

	err = resp.Decode(&schema)
	if err != nil {
		return nil, fmt.Errorf("decoding %s schema: %w", r.Name(), err)
	}

	r.schema = schema

	return r.schema, nil
}
