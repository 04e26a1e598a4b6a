package restkit

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError represents a non-success HTTP response. It keeps the status
// line, the response headers, and the raw content so callers can inspect
// exactly what the server sent even after the error has been wrapped with
// resource context.
type RequestError struct {
	Message    string
	StatusCode int
	Status     string
	Headers    http.Header
	Content    []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("received HTTP %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// NewRequestError builds a RequestError from a response.
func NewRequestError(resp *Response) *RequestError {
	return &RequestError{
		Message:    fmt.Sprintf("received HTTP %d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Headers,
		Content:    resp.Body,
	}
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrInvalidBaseURL       = errors.New("base URL must be an absolute http or https URL")
	ErrHandlerRequired      = errors.New("request handler is required")
	ErrResourceNameRequired = errors.New("resource name is required")
	ErrResourceIDRequired   = errors.New("resource id is required")
	ErrResourceExists       = errors.New("resource already registered")
	ErrResourceNotFound     = errors.New("resource not registered")
	ErrUnsupportedFormBody  = errors.New("form serializer supports url.Values and map[string]string bodies")
	ErrSkipTLSOnlyInDev     = errors.New("skipping TLS verification is only allowed in development environments")
)

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 response.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsBadRequest checks if the error is a 400 response.
func IsBadRequest(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

func hasStatus(err error, status int) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == status
	}

	return false
}
