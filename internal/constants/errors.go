package constants

import "errors"

// API and configuration errors.
var (
	ErrNoAPIsConfigured  = errors.New("no APIs configured, use 'restkit login' to add one")
	ErrAPIConfigNotFound = errors.New("API configuration not found")
	ErrNotAuthenticated  = errors.New("not authenticated, use 'restkit login' first")
)

// Input validation errors.
var (
	ErrEndpointRequired     = errors.New("API endpoint is required")
	ErrResourceNameRequired = errors.New("resource name is required")
	ErrBodyRequired         = errors.New("request body is required, pass --data or --file")
	ErrInvalidMethod        = errors.New("unsupported HTTP method")
	ErrInvalidKeyValuePair  = errors.New("expected KEY=VALUE format")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrSecretsCannotUnset   = errors.New("credential fields cannot be unset via config, use 'restkit logout'")
)
