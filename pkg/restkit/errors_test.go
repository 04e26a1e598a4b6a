package restkit

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RequestError
		expected string
	}{
		{
			name:     "with message",
			err:      &RequestError{Message: "received HTTP 404 (Not Found)", StatusCode: 404},
			expected: "received HTTP 404 (Not Found)",
		},
		{
			name:     "without message",
			err:      &RequestError{StatusCode: 503},
			expected: "received HTTP 503 (Service Unavailable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewRequestError(t *testing.T) {
	resp := &Response{
		StatusCode: 404,
		Status:     "404 Not Found",
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(`{"error": "no such user"}`),
	}

	reqErr := NewRequestError(resp)
	assert.Equal(t, "received HTTP 404 (Not Found)", reqErr.Message)
	assert.Equal(t, 404, reqErr.StatusCode)
	assert.Equal(t, "404 Not Found", reqErr.Status)
	assert.Equal(t, "application/json", reqErr.Headers.Get("Content-Type"))
	assert.Equal(t, resp.Body, reqErr.Content)
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		expected bool
	}{
		{
			name:     "not found",
			err:      &RequestError{StatusCode: 404},
			check:    IsNotFound,
			expected: true,
		},
		{
			name:     "not found on other status",
			err:      &RequestError{StatusCode: 401},
			check:    IsNotFound,
			expected: false,
		},
		{
			name:     "unauthorized",
			err:      &RequestError{StatusCode: 401},
			check:    IsUnauthorized,
			expected: true,
		},
		{
			name:     "forbidden",
			err:      &RequestError{StatusCode: 403},
			check:    IsForbidden,
			expected: true,
		},
		{
			name:     "bad request",
			err:      &RequestError{StatusCode: 400},
			check:    IsBadRequest,
			expected: true,
		},
		{
			name:     "server error",
			err:      &RequestError{StatusCode: 502},
			check:    IsServerError,
			expected: true,
		},
		{
			name:     "client error is not a server error",
			err:      &RequestError{StatusCode: 404},
			check:    IsServerError,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("getting users 42: %w", &RequestError{StatusCode: 404}),
			check:    IsNotFound,
			expected: true,
		},
		{
			name:     "other error type",
			err:      errors.New("some error"),
			check:    IsNotFound,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			check:    IsNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.check(tt.err))
		})
	}
}

func TestRequestError_Wrapping(t *testing.T) {
	inner := &RequestError{StatusCode: 404, Content: []byte(`{"error": "gone"}`)}
	wrapped := fmt.Errorf("deleting entries 7: %w", inner)

	reqErr := &RequestError{}
	require.True(t, errors.As(wrapped, &reqErr))
	assert.Equal(t, 404, reqErr.StatusCode)
	assert.Equal(t, inner.Content, reqErr.Content)
}
