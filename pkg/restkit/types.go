package restkit

import (
	"fmt"
	"net/http"
	"net/url"
)

// Request describes a single API call before it is handed to the transport.
// Interceptors and resource filters may rewrite any field.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string

	// Metadata is scratch space for interceptors; it never reaches the wire.
	Metadata map[string]interface{}
}

// Response carries the transport-level response metadata together with the
// raw body content. Every verb returns one, paired with an error for
// non-success statuses, so callers always have both halves of the exchange.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte

	serializer Serializer
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Decode unmarshals the response body into v using the serializer that
// produced the response. Responses built by hand decode as JSON.
func (r *Response) Decode(v any) error {
	serializer := r.serializer
	if serializer == nil {
		serializer = JSONSerializer{}
	}

	err := serializer.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Map decodes the response body into a generic map, the shape most REST
// APIs use for single objects.
func (r *Response) Map() (map[string]any, error) {
	var decoded map[string]any

	err := r.Decode(&decoded)
	if err != nil {
		return nil, err
	}

	return decoded, nil
}
