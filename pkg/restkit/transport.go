package restkit

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/fivetwenty-io/restkit/internal/constants"
)

// defaultUserAgent identifies the library on the wire.
const defaultUserAgent = "restkit-go/1.0"

// RequestHandler issues API requests on behalf of a Client. Implementations
// own the base URL, shared headers, and credentials; swapping one in through
// Config.RequestHandler replaces the transport for every resource registered
// on the connection.
type RequestHandler interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	SetHeader(key, value string)
	SetBasicAuth(username, password string)
	BaseURL() string
}

// HTTPRequestHandler is the default RequestHandler, backed by net/http with
// a pooled client. It performs exactly one call per request: failures are
// surfaced immediately, never retried.
type HTTPRequestHandler struct {
	baseURL       string
	httpClient    *http.Client
	serializer    Serializer
	headers       map[string]string
	params        url.Values
	username      string
	password      string
	basicAuth     bool
	userAgent     string
	logger        Logger
	debug         bool
	timeout       time.Duration
	skipTLSVerify bool
	chain         *InterceptorChain
}

// HandlerOption configures an HTTPRequestHandler.
type HandlerOption func(*HTTPRequestHandler)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(client *http.Client) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.httpClient = client
	}
}

// WithTimeout sets the per-request timeout on the HTTP client.
func WithTimeout(timeout time.Duration) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.timeout = timeout
	}
}

// WithSkipTLSVerify disables TLS certificate verification.
func WithSkipTLSVerify(skip bool) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.skipTLSVerify = skip
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.userAgent = agent
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.logger = logger
	}
}

// WithDebug toggles request/response logging.
func WithDebug(debug bool) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.debug = debug
	}
}

// WithSerializer replaces the JSON serializer.
func WithSerializer(serializer Serializer) HandlerOption {
	return func(h *HTTPRequestHandler) {
		if serializer != nil {
			h.serializer = serializer
		}
	}
}

// WithExtraHeaders adds headers sent with every request.
func WithExtraHeaders(headers map[string]string) HandlerOption {
	return func(h *HTTPRequestHandler) {
		for key, value := range headers {
			h.headers[key] = value
		}
	}
}

// WithExtraParams adds query parameters sent with every request.
func WithExtraParams(params url.Values) HandlerOption {
	return func(h *HTTPRequestHandler) {
		for key, values := range params {
			for _, value := range values {
				h.params.Add(key, value)
			}
		}
	}
}

// WithInterceptors attaches an interceptor chain to the handler.
func WithInterceptors(chain *InterceptorChain) HandlerOption {
	return func(h *HTTPRequestHandler) {
		h.chain = chain
	}
}

// NewHTTPRequestHandler creates a transport rooted at baseURL. Trailing
// slashes on the base URL are trimmed so paths join with exactly one
// separator.
func NewHTTPRequestHandler(baseURL string, opts ...HandlerOption) (*HTTPRequestHandler, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	handler := &HTTPRequestHandler{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serializer: JSONSerializer{},
		headers:    make(map[string]string),
		params:     url.Values{},
		userAgent:  defaultUserAgent,
		logger:     noopLogger{},
		debug:      debugFromEnv(),
	}

	for _, opt := range opts {
		opt(handler)
	}

	if handler.httpClient == nil {
		handler.httpClient = cleanhttp.DefaultPooledClient()
		handler.httpClient.Timeout = constants.DefaultHTTPTimeout
	}

	if handler.timeout > 0 {
		handler.httpClient.Timeout = handler.timeout
	}

	if handler.skipTLSVerify {
		transport := cleanhttp.DefaultPooledTransport()
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 -- explicit opt-in via WithSkipTLSVerify
		}
		handler.httpClient.Transport = transport
	}

	return handler, nil
}

// BaseURL returns the root URL every request path is joined to.
func (h *HTTPRequestHandler) BaseURL() string {
	return h.baseURL
}

// Serializer returns the serializer used for request and response bodies.
func (h *HTTPRequestHandler) Serializer() Serializer {
	return h.serializer
}

// SetHeader injects a header into every subsequent request.
func (h *HTTPRequestHandler) SetHeader(key, value string) {
	h.headers[key] = value
}

// SetBasicAuth stores HTTP basic credentials applied to every request.
func (h *HTTPRequestHandler) SetBasicAuth(username, password string) {
	h.username = username
	h.password = password
	h.basicAuth = true
}

// Do executes a single request against the base URL. On non-2xx statuses it
// returns the Response together with a *RequestError carrying the same
// status and content, so callers can reach either through the pair or
// through errors.As.
func (h *HTTPRequestHandler) Do(ctx context.Context, req *Request) (*Response, error) {
	if h.chain != nil {
		err := h.chain.ExecuteRequestInterceptors(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := h.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if h.debug {
		h.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	httpResp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		closeErr := httpResp.Body.Close()
		if closeErr != nil {
			h.logger.Warn("failed to close response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		serializer: h.serializer,
	}

	if h.debug {
		h.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         httpReq.URL.String(),
			"status_code": resp.StatusCode,
		})
	}

	if h.chain != nil {
		err = h.chain.ExecuteResponseInterceptors(ctx, req, resp)
		if err != nil {
			return resp, err
		}
	}

	if !resp.IsSuccess() {
		return resp, NewRequestError(resp)
	}

	return resp, nil
}

// Get performs a GET request.
func (h *HTTPRequestHandler) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return h.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a serialized body.
func (h *HTTPRequestHandler) Post(ctx context.Context, path string, body any) (*Response, error) {
	return h.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a serialized body.
func (h *HTTPRequestHandler) Put(ctx context.Context, path string, body any) (*Response, error) {
	return h.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (h *HTTPRequestHandler) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return h.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

func (h *HTTPRequestHandler) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader

	hasBody := req.Body != nil
	if hasBody {
		raw, err := h.marshalBody(req.Body)
		if err != nil {
			return nil, err
		}

		bodyReader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, h.requestURL(req), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", h.serializer.ContentType())

	if hasBody {
		httpReq.Header.Set("Content-Type", h.serializer.ContentType())
	}

	if h.userAgent != "" {
		httpReq.Header.Set("User-Agent", h.userAgent)
	}

	for key, value := range h.headers {
		httpReq.Header.Set(key, value)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if h.basicAuth {
		httpReq.SetBasicAuth(h.username, h.password)
	}

	return httpReq, nil
}

// marshalBody serializes the request body. Raw []byte bodies pass through
// untouched so callers can send pre-encoded payloads.
func (h *HTTPRequestHandler) marshalBody(body any) ([]byte, error) {
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}

	data, err := h.serializer.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("serializing request body: %w", err)
	}

	return data, nil
}

func (h *HTTPRequestHandler) requestURL(req *Request) string {
	full := h.baseURL + "/" + strings.TrimLeft(req.Path, "/")

	query := url.Values{}

	for key, values := range h.params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	for key, values := range req.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	if encoded := query.Encode(); encoded != "" {
		full += "?" + encoded
	}

	return full
}

// debugFromEnv reports the RESTKIT_DEBUG environment toggle, the default
// when no explicit debug setting is given.
func debugFromEnv() bool {
	value := os.Getenv("RESTKIT_DEBUG")

	return value == "1" || value == constants.BooleanTrue
}
