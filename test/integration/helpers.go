//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fivetwenty-io/restkit/pkg/tastypie"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint string
	Username string
	APIKey   string

	// WriteResource names a resource the test account may create, update,
	// and delete objects in. CreateBody is the JSON body used for creates.
	WriteResource string
	CreateBody    string

	Verbose bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:      os.Getenv("RESTKIT_TEST_ENDPOINT"),
		Username:      os.Getenv("RESTKIT_TEST_USERNAME"),
		APIKey:        os.Getenv("RESTKIT_TEST_API_KEY"),
		WriteResource: os.Getenv("RESTKIT_TEST_WRITE_RESOURCE"),
		CreateBody:    os.Getenv("RESTKIT_TEST_CREATE_BODY"),
		Verbose:       os.Getenv("RESTKIT_TEST_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Endpoint == "" {
		t.Skip("RESTKIT_TEST_ENDPOINT not set, skipping integration test")
	}
}

// SkipIfNoWriteResource skips test unless a writable resource is configured
func (config *TestConfig) SkipIfNoWriteResource(t *testing.T) {
	t.Helper()

	config.SkipIfMissingConfig(t)

	if config.WriteResource == "" {
		t.Skip("RESTKIT_TEST_WRITE_RESOURCE not set, skipping write test")
	}

	if config.CreateBody == "" {
		t.Skip("RESTKIT_TEST_CREATE_BODY not set, skipping write test")
	}
}

// NewTestClient creates a client against the configured API
func NewTestClient(t *testing.T, config *TestConfig) *tastypie.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := tastypie.New(ctx, &tastypie.Config{
		Endpoint: config.Endpoint,
		Username: config.Username,
		APIKey:   config.APIKey,
		Timeout:  30 * time.Second,
		Debug:    config.Verbose,
	})
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return client
}

// ParseCreateBody decodes the configured create body
func (config *TestConfig) ParseCreateBody(t *testing.T) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	err := json.Unmarshal([]byte(config.CreateBody), &body)
	if err != nil {
		t.Fatalf("RESTKIT_TEST_CREATE_BODY is not valid JSON: %v", err)
	}

	return body
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}
