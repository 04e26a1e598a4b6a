package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	authMechanismKey = "auth_mechanism"
)

// Config represents the CLI configuration.
type Config struct {
	// Multi-API configuration
	APIs       map[string]*APIConfig `json:"apis,omitempty"        yaml:"apis,omitempty"`
	CurrentAPI string                `json:"current_api,omitempty" yaml:"current_api,omitempty"`

	// Global settings
	Output string `json:"output" yaml:"output"`
}

// APIConfig represents configuration for a single API endpoint.
type APIConfig struct {
	Endpoint          string `json:"endpoint"                 yaml:"endpoint"`
	Username          string `json:"username,omitempty"       yaml:"username,omitempty"`
	APIKey            string `json:"api_key,omitempty"        yaml:"api_key,omitempty"`
	Password          string `json:"password,omitempty"       yaml:"password,omitempty"`
	AuthMechanism     string `json:"auth_mechanism,omitempty" yaml:"auth_mechanism,omitempty"`
	SkipSSLValidation bool   `json:"skip_ssl_validation"      yaml:"skip_ssl_validation"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage restkit CLI configuration including APIs and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, show only that API's configuration
			if apiFlag != "" {
				return showAPISpecificConfig(config, apiFlag)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", constants.JSONIndent)

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(config)
			default:
				return displayConfigTable(config)
			}
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "show configuration for specific API")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			// If --api flag is provided, set API-specific configuration
			if apiFlag != "" {
				return setAPISpecificConfig(config, apiFlag, key, value)
			}

			// Otherwise set global configuration
			return setGlobalConfig(config, key, value)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigUnsetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			// If --api flag is provided, unset API-specific configuration
			if apiFlag != "" {
				return unsetAPISpecificConfig(config, apiFlag, key)
			}

			// Otherwise unset global configuration
			return unsetGlobalConfig(config, key)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigClearCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, clear only that API's configuration
			if apiFlag != "" {
				return clearAPISpecificConfig(config, apiFlag)
			}

			// Otherwise clear all configuration
			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				home, _ := os.UserHomeDir()
				configFile = filepath.Join(home, ".restkit", "config.yml")
			}

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult("Cleared", "all configuration", "", "")
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "clear configuration for specific API only")

	return cmd
}

func loadConfig() *Config {
	config := &Config{
		Output:     viper.GetString("output"),
		CurrentAPI: viper.GetString("current_api"),
		APIs:       make(map[string]*APIConfig),
	}

	loadAPIConfigurations(config)

	return config
}

// loadAPIConfigurations loads multi-API configuration from viper.
func loadAPIConfigurations(config *Config) {
	apisRaw := viper.GetStringMap("apis")
	if apisRaw == nil {
		return
	}

	for name, apiRaw := range apisRaw {
		if apiMap, ok := apiRaw.(map[string]interface{}); ok {
			config.APIs[name] = parseAPIConfig(apiMap)
		}
	}
}

// parseAPIConfig parses API configuration from a map.
func parseAPIConfig(apiMap map[string]interface{}) *APIConfig {
	apiConfig := &APIConfig{}

	if endpoint, ok := apiMap["endpoint"].(string); ok {
		apiConfig.Endpoint = endpoint
	}

	if skipSSL, ok := apiMap["skip_ssl_validation"].(bool); ok {
		apiConfig.SkipSSLValidation = skipSSL
	}

	parseAPICredentialFields(apiConfig, apiMap)

	return apiConfig
}

// parseAPICredentialFields parses authentication-related configuration fields.
func parseAPICredentialFields(apiConfig *APIConfig, apiMap map[string]interface{}) {
	credentialFields := map[string]*string{
		"username":       &apiConfig.Username,
		"api_key":        &apiConfig.APIKey,
		"password":       &apiConfig.Password,
		authMechanismKey: &apiConfig.AuthMechanism,
	}

	for key, field := range credentialFields {
		if value, ok := apiMap[key].(string); ok {
			*field = value
		}
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".restkit")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// extractDomainFromEndpoint extracts the domain portion from an API endpoint.
func extractDomainFromEndpoint(endpoint string) string {
	// Remove protocol if present
	domain := endpoint
	if strings.HasPrefix(domain, "https://") {
		domain = strings.TrimPrefix(domain, "https://")
	} else if strings.HasPrefix(domain, "http://") {
		domain = strings.TrimPrefix(domain, "http://")
	}

	// Remove path if present
	if idx := strings.Index(domain, "/"); idx != -1 {
		domain = domain[:idx]
	}

	// Remove port if present
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return domain
}

// getCurrentAPIConfig returns the configuration for the currently targeted API.
func getCurrentAPIConfig() (*APIConfig, error) {
	config := loadConfig()

	if config.CurrentAPI == "" {
		if len(config.APIs) == 0 {
			return nil, constants.ErrNoAPIsConfigured
		}
		// If no current API set but APIs exist, use the first one
		for name := range config.APIs {
			config.CurrentAPI = name

			break
		}
	}

	apiConfig, exists := config.APIs[config.CurrentAPI]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", constants.ErrAPIConfigNotFound, config.CurrentAPI)
	}

	return apiConfig, nil
}

// getAPIConfigByFlag returns API config based on command line flag or current API.
func getAPIConfigByFlag(apiFlag string) (*APIConfig, error) {
	config := loadConfig()

	// If --api flag is provided, use that specific API
	if apiFlag != "" {
		// Check if the flag is a short name in our config
		if apiConfig, exists := config.APIs[apiFlag]; exists {
			return apiConfig, nil
		}

		resolved, err := ResolveAPIEndpoint(apiFlag)
		if err != nil {
			return nil, err
		}

		// Otherwise look for it by resolved endpoint
		for _, apiConfig := range config.APIs {
			if apiConfig.Endpoint == resolved {
				return apiConfig, nil
			}
		}

		// Not configured, treat the flag as an ad-hoc anonymous endpoint
		return &APIConfig{Endpoint: resolved}, nil
	}

	// Otherwise use current API
	return getCurrentAPIConfig()
}

// ResolveAPIEndpoint resolves a short name or returns the endpoint if it's already a URL.
func ResolveAPIEndpoint(apiNameOrEndpoint string) (string, error) {
	if apiNameOrEndpoint == "" {
		return "", constants.ErrEndpointRequired
	}

	config := loadConfig()

	// Check if it's a short name in the APIs map
	if apiConfig, exists := config.APIs[apiNameOrEndpoint]; exists {
		return apiConfig.Endpoint, nil
	}

	// If not found in config, treat as direct endpoint URL
	return apiNameOrEndpoint, nil
}

// CreateClientWithAPI creates a client for the specified API or current API.
// Discovery is left to the commands that need it so raw requests work
// against roots that do not publish a resource directory.
func CreateClientWithAPI(apiFlag string) (*tastypie.Client, error) {
	apiConfig, err := getAPIConfigByFlag(apiFlag)
	if err != nil {
		return nil, err
	}

	if apiConfig.Endpoint == "" {
		return nil, constants.ErrEndpointRequired
	}

	tastypieConfig := &tastypie.Config{
		Endpoint:         apiConfig.Endpoint,
		Username:         apiConfig.Username,
		APIKey:           apiConfig.APIKey,
		Password:         apiConfig.Password,
		AuthMechanism:    apiConfig.AuthMechanism,
		SkipTLSVerify:    apiConfig.SkipSSLValidation || viper.GetBool("skip-ssl-validation"),
		DisableDiscovery: true,
		Debug:            viper.GetBool("verbose"),
		Logger:           newCommandLogger(),
	}

	client, err := tastypie.New(context.Background(), tastypieConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, nil
}

// setGlobalConfig sets a global configuration value.
func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		config.Output = value
	case "current_api":
		if _, exists := config.APIs[value]; !exists {
			return fmt.Errorf("%w: '%s'", constants.ErrAPIConfigNotFound, value)
		}

		config.CurrentAPI = value
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", constants.ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set global", key, value, "")
}

// setAPISpecificConfig sets configuration for a specific API.
func setAPISpecificConfig(config *Config, apiName, key, value string) error {
	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return fmt.Errorf("%w: '%s'. Use 'restkit config show' to see available APIs", constants.ErrAPIConfigNotFound, apiName)
	}

	if handler, found := getAPIConfigHandler(key); found {
		handler(apiConfig, value)
	} else {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	config.APIs[apiName] = apiConfig

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Do not echo credential values back
	displayValue := value
	if key == "api_key" || key == "password" {
		displayValue = constants.MaskedSecret
	}

	return outputConfigUpdateResult("Set", key, displayValue, apiName)
}

// getAPIConfigHandler returns a handler function for a given config key.
func getAPIConfigHandler(key string) (func(*APIConfig, string), bool) {
	handlers := map[string]func(*APIConfig, string){
		"endpoint":            func(c *APIConfig, v string) { c.Endpoint = v },
		"username":            func(c *APIConfig, v string) { c.Username = v },
		"api_key":             func(c *APIConfig, v string) { c.APIKey = v },
		"password":            func(c *APIConfig, v string) { c.Password = v },
		authMechanismKey:      func(c *APIConfig, v string) { c.AuthMechanism = v },
		"skip_ssl_validation": func(c *APIConfig, v string) { c.SkipSSLValidation = parseBoolValue(v) },
	}
	handler, exists := handlers[key]

	return handler, exists
}

// parseBoolValue parses a boolean value from string.
func parseBoolValue(value string) bool {
	return value == constants.BooleanTrue || value == "1"
}

// unsetGlobalConfig unsets a global configuration value.
func unsetGlobalConfig(config *Config, key string) error {
	switch key {
	case "output":
		config.Output = constants.FormatTable
	case "current_api":
		config.CurrentAPI = ""
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", constants.ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset global", key, "", "")
}

// unsetAPISpecificConfig unsets configuration for a specific API.
func unsetAPISpecificConfig(config *Config, apiName, key string) error {
	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return fmt.Errorf("%w: '%s'. Use 'restkit config show' to see available APIs", constants.ErrAPIConfigNotFound, apiName)
	}

	switch key {
	case "username":
		apiConfig.Username = ""
	case authMechanismKey:
		apiConfig.AuthMechanism = ""
	case "skip_ssl_validation":
		apiConfig.SkipSSLValidation = false
	// Credential fields should not be unset via config command for security
	case "api_key", "password":
		return fmt.Errorf("%w instead", constants.ErrSecretsCannotUnset)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	// Update the API config in the main config
	config.APIs[apiName] = apiConfig

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset", key, "", apiName)
}

// showAPISpecificConfig shows configuration for a specific API.
func showAPISpecificConfig(config *Config, apiName string) error {
	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return fmt.Errorf("%w: '%s'. Use 'restkit config show' to see available APIs", constants.ErrAPIConfigNotFound, apiName)
	}

	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", constants.JSONIndent)

		err := encoder.Encode(apiConfig)
		if err != nil {
			return fmt.Errorf("failed to encode API config as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(apiConfig)
		if err != nil {
			return fmt.Errorf("failed to encode API config as YAML: %w", err)
		}

		return nil
	default:
		return displayAPISpecificConfigTable(config, apiName, apiConfig)
	}
}

// clearAPISpecificConfig clears configuration for a specific API.
func clearAPISpecificConfig(config *Config, apiName string) error {
	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return fmt.Errorf("%w: '%s'. Use 'restkit config show' to see available APIs", constants.ErrAPIConfigNotFound, apiName)
	}

	// Clear all configuration except the endpoint
	apiConfig.Username = ""
	apiConfig.APIKey = ""
	apiConfig.Password = ""
	apiConfig.AuthMechanism = ""
	apiConfig.SkipSSLValidation = false

	// Update the API config in the main config
	config.APIs[apiName] = apiConfig

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Cleared configuration for API", apiName, "", "")
}

// displayConfigTable displays configuration in a table format.
func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Output", config.Output})

	if config.CurrentAPI != "" {
		_ = table.Append([]string{"Current API", config.CurrentAPI})
	}

	_, _ = os.Stdout.WriteString("Global Configuration:\n")

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return displayAPIsConfigTable(config)
}

func displayAPIsConfigTable(config *Config) error {
	if len(config.APIs) == 0 {
		_, _ = os.Stdout.WriteString("\nNo APIs configured. Use 'restkit login' to add one.\n")

		return nil
	}

	_, _ = os.Stdout.WriteString("\nConfigured APIs:\n")

	apiTable := tablewriter.NewWriter(os.Stdout)
	apiTable.Header("Name", "Endpoint", "Username", "Auth", "Current")

	for name, apiConfig := range config.APIs {
		_ = apiTable.Append([]string{
			name,
			apiConfig.Endpoint,
			formatConfigValue(apiConfig.Username),
			formatConfigValue(apiConfig.AuthMechanism),
			formatCurrentIndicator(name == config.CurrentAPI),
		})
	}

	err := apiTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render API config table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func formatCurrentIndicator(isCurrent bool) string {
	if isCurrent {
		return "✓"
	}

	return ""
}

// displayAPISpecificConfigTable displays configuration for a specific API in table format.
func displayAPISpecificConfigTable(config *Config, apiName string, apiConfig *APIConfig) error {
	current := ""
	if apiName == config.CurrentAPI {
		current = " (current)"
	}

	_, _ = fmt.Fprintf(os.Stdout, "Configuration for API '%s'%s:\n", apiName, current)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Endpoint", apiConfig.Endpoint})

	if apiConfig.Username != "" {
		_ = table.Append([]string{"Username", apiConfig.Username})
	}

	if apiConfig.AuthMechanism != "" {
		_ = table.Append([]string{"Auth Mechanism", apiConfig.AuthMechanism})
	}

	if apiConfig.SkipSSLValidation {
		_ = table.Append([]string{"Skip SSL", strconv.FormatBool(apiConfig.SkipSSLValidation)})
	}

	// Credential values are masked for security
	if apiConfig.APIKey != "" {
		_ = table.Append([]string{"API Key", constants.MaskedSecret})
	}

	if apiConfig.Password != "" {
		_ = table.Append([]string{"Password", constants.MaskedSecret})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render API config table: %w", err)
	}

	return nil
}

// outputConfigUpdateResult outputs configuration update results in the requested format.
func outputConfigUpdateResult(action, key, value, apiName string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	if apiName != "" {
		result["api"] = apiName
	}

	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", constants.JSONIndent)

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as YAML: %w", err)
		}

		return nil
	default:
		return outputConfigUpdateTable(action, key, value, apiName)
	}
}

func outputConfigUpdateTable(action, key, value, apiName string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Action", action})
	_ = table.Append([]string{"Key", key})

	if value != "" {
		_ = table.Append([]string{"Value", value})
	}

	if apiName != "" {
		_ = table.Append([]string{"API", apiName})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render update results table: %w", err)
	}

	return nil
}
