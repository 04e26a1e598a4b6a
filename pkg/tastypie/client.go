// Package tastypie provides a REST client tuned for django-tastypie APIs.
package tastypie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Auth mechanisms accepted by Config.AuthMechanism.
const (
	AuthMechanismAPIKey = "api_key"
	AuthMechanismBasic  = "basic"
)

// Static errors for err113 compliance.
var (
	ErrEndpointRequired     = errors.New("API endpoint is required")
	ErrUnknownAuthMechanism = errors.New("unknown auth mechanism")
)

// Config represents tastypie client configuration.
type Config struct {
	// Endpoint is the API root, e.g. https://example.com/api/v1.
	// A bare host is promoted to https.
	Endpoint string

	// Username and APIKey authenticate via the tastypie ApiKey scheme.
	Username string
	APIKey   string

	// Password is used instead of APIKey when AuthMechanism is "basic".
	Password string

	// AuthMechanism selects how credentials are applied.
	// Defaults to "api_key".
	AuthMechanism string

	// SkipTLSVerify disables TLS certificate verification. Only honored
	// in development environments (RESTKIT_DEV_MODE=true).
	SkipTLSVerify bool

	// DisableDiscovery skips fetching the resource directory on New.
	DisableDiscovery bool

	// Timeout bounds each request.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables request/response logging.
	Debug bool

	// Logger receives client log output.
	Logger restkit.Logger

	// RequestHandler overrides the default HTTP transport.
	RequestHandler restkit.RequestHandler
}

// Endpoint describes one resource advertised by the API root directory.
type Endpoint struct {
	ListEndpoint string `json:"list_endpoint"`
	Schema       string `json:"schema"`
}

// Client is a connection to a tastypie API. It extends the generic REST
// client with the tastypie conventions: ApiKey authentication, resource
// discovery from the API root, and per-resource schema introspection.
type Client struct {
	*restkit.Client

	mechanism string
	endpoints map[string]Endpoint
	resources map[string]*Resource
}

// New creates a tastypie client, applies configured credentials, and
// discovers the API's resources unless discovery is disabled.
func New(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, restkit.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, ErrEndpointRequired
	}

	// Normalize the endpoint
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	if config.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set RESTKIT_DEV_MODE=true)", restkit.ErrSkipTLSOnlyInDev)
	}

	rest, err := restkit.New(&restkit.Config{
		BaseURL:        endpoint,
		RequestHandler: config.RequestHandler,
		SkipTLSVerify:  config.SkipTLSVerify,
		Timeout:        config.Timeout,
		UserAgent:      config.UserAgent,
		Debug:          config.Debug,
		Logger:         config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating REST client: %w", err)
	}

	client := &Client{
		Client:    rest,
		mechanism: config.AuthMechanism,
		endpoints: make(map[string]Endpoint),
		resources: make(map[string]*Resource),
	}

	if needsAuth(config) {
		err = client.Auth(config.Username, credential(config))
		if err != nil {
			return nil, err
		}
	}

	if !config.DisableDiscovery {
		err = client.FindResources(ctx)
		if err != nil {
			return nil, fmt.Errorf("discovering resources: %w", err)
		}
	}

	return client, nil
}

// needsAuth checks if the config carries credentials to apply.
func needsAuth(config *Config) bool {
	return config.Username != "" && (config.APIKey != "" || config.Password != "")
}

// credential picks the secret matching the configured mechanism.
func credential(config *Config) string {
	if config.AuthMechanism == AuthMechanismBasic {
		return config.Password
	}

	return config.APIKey
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("RESTKIT_DEV_MODE")

	return devMode == "true" || devMode == "1"
}

// Auth applies credentials using the configured mechanism. The default
// mechanism sends the tastypie ApiKey authorization header.
func (c *Client) Auth(username, secret string) error {
	switch c.mechanism {
	case AuthMechanismBasic:
		c.Client.Auth(username, secret)
	case AuthMechanismAPIKey, "":
		c.SetHeader("Authorization", fmt.Sprintf("ApiKey %s:%s", username, secret))
	default:
		return fmt.Errorf("applying auth mechanism %q: %w", c.mechanism, ErrUnknownAuthMechanism)
	}

	return nil
}

// FindResources fetches the resource directory from the API root and
// registers a handler for every resource not already present. Registration
// failures are collected so one bad entry does not hide the rest.
func (c *Client) FindResources(ctx context.Context) error {
	resp, err := c.Request(ctx, "GET", "/", nil, nil)
	if err != nil {
		return fmt.Errorf("fetching API root: %w", err)
	}

	var endpoints map[string]Endpoint

	err = resp.Decode(&endpoints)
	if err != nil {
		return fmt.Errorf("decoding API root: %w", err)
	}

	var result *multierror.Error

	for name, endpoint := range endpoints {
		c.endpoints[name] = endpoint

		if _, registered := c.resources[name]; registered {
			continue
		}

		_, err := c.AddResource(name)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// AddResource registers a tastypie resource handler on the connection.
func (c *Client) AddResource(name string, opts ...restkit.ResourceOption) (*Resource, error) {
	base, err := c.Client.AddResource(name, opts...)
	if err != nil {
		return nil, err
	}

	resource := newResource(base, c.Handler())
	c.resources[name] = resource

	return resource, nil
}

// Resource looks up a registered resource handler by name.
func (c *Client) Resource(name string) (*Resource, bool) {
	resource, ok := c.resources[name]

	return resource, ok
}

// Endpoints returns the resource directory collected during discovery,
// keyed by resource name.
func (c *Client) Endpoints() map[string]Endpoint {
	return c.endpoints
}

// NewWithEndpoint creates a client with just an API endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (*Client, error) {
	return New(ctx, &Config{
		Endpoint: endpoint,
	})
}

// NewWithAPIKey creates a client using tastypie ApiKey authentication.
func NewWithAPIKey(ctx context.Context, endpoint, username, apiKey string) (*Client, error) {
	return New(ctx, &Config{
		Endpoint: endpoint,
		Username: username,
		APIKey:   apiKey,
	})
}

// NewWithBasicAuth creates a client using HTTP basic authentication.
func NewWithBasicAuth(ctx context.Context, endpoint, username, password string) (*Client, error) {
	return New(ctx, &Config{
		Endpoint:      endpoint,
		Username:      username,
		Password:      password,
		AuthMechanism: AuthMechanismBasic,
	})
}
