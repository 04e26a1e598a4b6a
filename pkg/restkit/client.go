package restkit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// noopLogger is the default Logger; it discards everything.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields map[string]interface{}) {}
func (noopLogger) Info(msg string, fields map[string]interface{})  {}
func (noopLogger) Warn(msg string, fields map[string]interface{})  {}
func (noopLogger) Error(msg string, fields map[string]interface{}) {}

// Config represents client configuration for building a Client.
//
// Only BaseURL is required. RequestHandler substitutes the whole transport;
// when it is set, the transport-shaping fields (Serializer, SkipTLSVerify,
// Timeout, UserAgent, Headers, Params, Debug, Interceptors) are ignored
// because the injected handler already owns those concerns.
type Config struct {
	// BaseURL is the root URL of the remote API, scheme included.
	BaseURL string

	// RequestHandler overrides the default HTTP transport.
	RequestHandler RequestHandler

	// Serializer encodes request bodies and decodes responses.
	// Defaults to JSONSerializer.
	Serializer Serializer

	// SkipTLSVerify disables TLS certificate verification.
	SkipTLSVerify bool

	// Timeout bounds each request, connection setup included.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Headers are sent with every request.
	Headers map[string]string

	// Params are query parameters appended to every request.
	Params url.Values

	// Debug enables request/response logging.
	Debug bool

	// Logger receives client log output. Defaults to a no-op logger.
	Logger Logger

	// Interceptors run around every request issued by the transport.
	Interceptors *InterceptorChain
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	err = validateAbsoluteURL(c.BaseURL)
	if err != nil {
		return fmt.Errorf("validating config: BaseURL: %w", err)
	}

	return nil
}

// validateAbsoluteURL rejects base URLs without an http or https scheme.
// Not an ozzo rule: validation.Errors does not unwrap to the sentinel.
func validateAbsoluteURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidBaseURL
	}

	return nil
}

// Client is an API connection. It owns one transport handler shared by every
// registered resource, plus the registry mapping resource names to handlers.
//
// A Client is safe for concurrent requests once configured, but registration
// and credential changes are not synchronized: finish wiring before sharing
// it across goroutines.
type Client struct {
	config    *Config
	handler   RequestHandler
	resources map[string]Resource
	logger    Logger
}

// New creates a Client from config, building the default HTTPRequestHandler
// when none is injected.
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	handler := config.RequestHandler
	if handler == nil {
		handler, err = NewHTTPRequestHandler(config.BaseURL, handlerOptions(config, logger)...)
		if err != nil {
			return nil, fmt.Errorf("creating request handler: %w", err)
		}
	}

	return &Client{
		config:    config,
		handler:   handler,
		resources: make(map[string]Resource),
		logger:    logger,
	}, nil
}

// handlerOptions translates Config fields into transport options.
func handlerOptions(config *Config, logger Logger) []HandlerOption {
	opts := []HandlerOption{WithLogger(logger)}

	if config.Serializer != nil {
		opts = append(opts, WithSerializer(config.Serializer))
	}

	if config.SkipTLSVerify {
		opts = append(opts, WithSkipTLSVerify(true))
	}

	if config.Timeout > 0 {
		opts = append(opts, WithTimeout(config.Timeout))
	}

	if config.UserAgent != "" {
		opts = append(opts, WithUserAgent(config.UserAgent))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, WithExtraHeaders(config.Headers))
	}

	if len(config.Params) > 0 {
		opts = append(opts, WithExtraParams(config.Params))
	}

	if config.Debug {
		opts = append(opts, WithDebug(true))
	}

	if config.Interceptors != nil {
		opts = append(opts, WithInterceptors(config.Interceptors))
	}

	return opts
}

// BaseURL returns the root URL requests are issued against.
func (c *Client) BaseURL() string {
	return c.handler.BaseURL()
}

// Handler returns the transport the connection dispatches through.
func (c *Client) Handler() RequestHandler {
	return c.handler
}

// Request performs a raw API call relative to the base URL, bypassing the
// resource layer.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	return c.handler.Do(ctx, &Request{Method: method, Path: path, Query: query, Body: body})
}

// Auth stores HTTP basic credentials on the transport handler.
func (c *Client) Auth(username, password string) {
	c.handler.SetBasicAuth(username, password)
}

// SetHeader injects a header into every subsequent request.
func (c *Client) SetHeader(key, value string) {
	c.handler.SetHeader(key, value)
}

// ResourceOption configures resource registration.
type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	path     string
	instance Resource
	filters  []RequestFilter
}

// WithPath sets the path segment for the resource. It defaults to the
// resource name.
func WithPath(path string) ResourceOption {
	return func(o *resourceOptions) {
		o.path = path
	}
}

// WithHandler registers a caller-provided Resource implementation instead of
// the default RESTResource.
func WithHandler(resource Resource) ResourceOption {
	return func(o *resourceOptions) {
		o.instance = resource
	}
}

// WithFilter appends a request filter run before each dispatch.
func WithFilter(filter RequestFilter) ResourceOption {
	return func(o *resourceOptions) {
		o.filters = append(o.filters, filter)
	}
}

// AddResource registers a named resource handler on the connection. Names
// are unique per connection; registering a duplicate fails.
func (c *Client) AddResource(name string, opts ...ResourceOption) (Resource, error) {
	if name == "" {
		return nil, ErrResourceNameRequired
	}

	if _, exists := c.resources[name]; exists {
		return nil, fmt.Errorf("registering resource %q on %s: %w", name, c.BaseURL(), ErrResourceExists)
	}

	options := resourceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	resource := options.instance
	if resource == nil {
		var err error

		resource, err = NewRESTResource(name, options.path, c.handler, options.filters...)
		if err != nil {
			return nil, fmt.Errorf("registering resource %q: %w", name, err)
		}
	}

	c.resources[name] = resource
	c.logger.Debug("registered resource", map[string]interface{}{
		"name": name,
		"path": resource.Path(),
	})

	return resource, nil
}

// Resource looks up a registered resource handler by name.
func (c *Client) Resource(name string) (Resource, bool) {
	resource, ok := c.resources[name]

	return resource, ok
}

// Resources returns the registered resource names in sorted order.
func (c *Client) Resources() []string {
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
