package restkit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resource exposes CRUD-style verbs for one collection endpoint. List and
// Create address the collection, the id-taking verbs address one member.
type Resource interface {
	Name() string
	Path() string
	List(ctx context.Context, params url.Values) (*Response, error)
	Get(ctx context.Context, id string, params url.Values) (*Response, error)
	Create(ctx context.Context, body any) (*Response, error)
	Update(ctx context.Context, id string, body any) (*Response, error)
	Delete(ctx context.Context, id string, params url.Values) (*Response, error)
}

// RequestFilter rewrites an outgoing request before dispatch. Filters run in
// registration order on every verb and may change query parameters, body,
// and headers; they replace subclass-style verb overrides.
type RequestFilter func(ctx context.Context, req *Request) error

// RESTResource is the default Resource implementation. Every verb builds a
// Request, runs the filters, hands the request to the transport, and wraps
// failures with the resource name and id.
type RESTResource struct {
	name    string
	path    string
	handler RequestHandler
	filters []RequestFilter
}

// NewRESTResource binds name and path to a transport handler. An empty path
// defaults to the name; surrounding slashes are trimmed either way.
func NewRESTResource(name, path string, handler RequestHandler, filters ...RequestFilter) (*RESTResource, error) {
	if name == "" {
		return nil, ErrResourceNameRequired
	}

	if handler == nil {
		return nil, ErrHandlerRequired
	}

	if path == "" {
		path = name
	}

	return &RESTResource{
		name:    name,
		path:    strings.Trim(path, "/"),
		handler: handler,
		filters: filters,
	}, nil
}

// Name returns the name the resource was registered under.
func (r *RESTResource) Name() string {
	return r.name
}

// Path returns the path segment under the base URL.
func (r *RESTResource) Path() string {
	return r.path
}

// Handler returns the transport the resource dispatches to.
func (r *RESTResource) Handler() RequestHandler {
	return r.handler
}

// List retrieves the collection.
func (r *RESTResource) List(ctx context.Context, params url.Values) (*Response, error) {
	resp, err := r.dispatch(ctx, &Request{Method: http.MethodGet, Path: r.path, Query: params})
	if err != nil {
		return resp, fmt.Errorf("listing %s: %w", r.name, err)
	}

	return resp, nil
}

// Get retrieves one member by id.
func (r *RESTResource) Get(ctx context.Context, id string, params url.Values) (*Response, error) {
	if id == "" {
		return nil, fmt.Errorf("getting %s: %w", r.name, ErrResourceIDRequired)
	}

	resp, err := r.dispatch(ctx, &Request{Method: http.MethodGet, Path: r.itemPath(id), Query: params})
	if err != nil {
		return resp, fmt.Errorf("getting %s %s: %w", r.name, id, err)
	}

	return resp, nil
}

// Create POSTs a new member to the collection.
func (r *RESTResource) Create(ctx context.Context, body any) (*Response, error) {
	resp, err := r.dispatch(ctx, &Request{Method: http.MethodPost, Path: r.path, Body: body})
	if err != nil {
		return resp, fmt.Errorf("creating %s: %w", r.name, err)
	}

	return resp, nil
}

// Update PUTs new content for one member.
func (r *RESTResource) Update(ctx context.Context, id string, body any) (*Response, error) {
	if id == "" {
		return nil, fmt.Errorf("updating %s: %w", r.name, ErrResourceIDRequired)
	}

	resp, err := r.dispatch(ctx, &Request{Method: http.MethodPut, Path: r.itemPath(id), Body: body})
	if err != nil {
		return resp, fmt.Errorf("updating %s %s: %w", r.name, id, err)
	}

	return resp, nil
}

// Delete removes one member.
func (r *RESTResource) Delete(ctx context.Context, id string, params url.Values) (*Response, error) {
	if id == "" {
		return nil, fmt.Errorf("deleting %s: %w", r.name, ErrResourceIDRequired)
	}

	resp, err := r.dispatch(ctx, &Request{Method: http.MethodDelete, Path: r.itemPath(id), Query: params})
	if err != nil {
		return resp, fmt.Errorf("deleting %s %s: %w", r.name, id, err)
	}

	return resp, nil
}

func (r *RESTResource) dispatch(ctx context.Context, req *Request) (*Response, error) {
	for _, filter := range r.filters {
		err := filter(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("filtering request: %w", err)
		}
	}

	return r.handler.Do(ctx, req)
}

func (r *RESTResource) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
