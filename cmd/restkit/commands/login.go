package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		name        string
		username    string
		apiKey      string
		password    string
		mechanism   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a REST API",
		Long:  "Store credentials for an API endpoint and verify the connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get API endpoint
			originalInput := apiEndpoint
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
				originalInput = apiEndpoint
			}

			// If still no API endpoint, try to use current API from config
			if apiEndpoint == "" {
				config := loadConfig()
				if config.CurrentAPI != "" {
					if _, exists := config.APIs[config.CurrentAPI]; exists {
						apiEndpoint = config.CurrentAPI // Use the short name, it will be resolved below
						originalInput = config.CurrentAPI
					}
				}
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint (or short name): ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
				originalInput = apiEndpoint
			}

			if apiEndpoint == "" {
				return constants.ErrEndpointRequired
			}

			// Resolve short name to endpoint if applicable
			resolvedEndpoint, err := ResolveAPIEndpoint(apiEndpoint)
			if err != nil {
				return err
			}
			apiEndpoint = resolvedEndpoint

			skipSSL := viper.GetBool("skip-ssl-validation")

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username (empty for anonymous): ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			secret := apiKey
			if mechanism == tastypie.AuthMechanismBasic {
				secret = password
			}

			if secret == "" && username != "" {
				label := "API key: "
				if mechanism == tastypie.AuthMechanismBasic {
					label = "Password: "
				}

				fmt.Print(label)
				byteSecret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read secret: %w", err)
				}
				secret = string(byteSecret)
				fmt.Println()
			}

			// Create client with the provided credentials
			tastypieConfig := &tastypie.Config{
				Endpoint:         apiEndpoint,
				Username:         username,
				AuthMechanism:    mechanism,
				SkipTLSVerify:    skipSSL,
				DisableDiscovery: true,
				Debug:            viper.GetBool("verbose"),
				Logger:           newCommandLogger(),
			}
			if mechanism == tastypie.AuthMechanismBasic {
				tastypieConfig.Password = secret
			} else {
				tastypieConfig.APIKey = secret
			}

			ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
			defer cancel()

			client, err := tastypie.New(ctx, tastypieConfig)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Verify the connection by discovering resources. Roots that do
			// not publish a directory are not fatal.
			resourceCount := 0
			if err := client.FindResources(ctx); err != nil {
				fmt.Printf("Warning: could not discover resources: %v\n", err)
			} else {
				resourceCount = len(client.Resources())
			}

			// Determine the key to use for storing the API config.
			// If the original input was a short name, preserve it
			var configKey string
			currentConfig := loadConfig()
			if _, exists := currentConfig.APIs[originalInput]; exists {
				configKey = originalInput
			} else if name != "" {
				configKey = name
			} else {
				// Extract domain for use as key (for new APIs or direct URLs)
				configKey = extractDomainFromEndpoint(client.BaseURL())
			}

			// Load current configuration
			configStruct := loadConfig()

			// Initialize APIs map if needed
			if configStruct.APIs == nil {
				configStruct.APIs = make(map[string]*APIConfig)
			}

			// Get or create API config
			apiConfig, exists := configStruct.APIs[configKey]
			if !exists {
				apiConfig = &APIConfig{
					Endpoint: client.BaseURL(),
				}
				configStruct.APIs[configKey] = apiConfig
			}

			// Store credentials, replacing any from a previous mechanism
			apiConfig.Username = username
			apiConfig.AuthMechanism = mechanism
			apiConfig.SkipSSLValidation = skipSSL
			apiConfig.APIKey = ""
			apiConfig.Password = ""

			if mechanism == tastypie.AuthMechanismBasic {
				apiConfig.Password = secret
			} else {
				apiConfig.APIKey = secret
			}

			// Set as current API if this is the first one or no current API is set
			if configStruct.CurrentAPI == "" || len(configStruct.APIs) == 1 {
				configStruct.CurrentAPI = configKey
			}

			// Save configuration
			if err := saveConfigStruct(configStruct); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			// Display success message
			isFirstAPI := len(configStruct.APIs) == 1
			fmt.Printf("Successfully logged in to %s\n", client.BaseURL())
			if isFirstAPI {
				fmt.Printf("API '%s' set as current target\n", configKey)
			}

			if resourceCount > 0 {
				fmt.Println("\nAvailable resources:")
				for _, resourceName := range client.Resources() {
					fmt.Printf("  - %s\n", resourceName)
				}
				fmt.Println("\nUse 'restkit get <resource>' to list objects")
			}

			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL or short name from config")
	cmd.Flags().StringVar(&name, "name", "", "short name to store this API under")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for basic authentication")
	cmd.Flags().StringVar(&mechanism, "auth-mechanism", tastypie.AuthMechanismAPIKey, "auth mechanism (api_key or basic)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out from a REST API",
		Long:  "Clear stored credentials for the current or specified API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			name := cmd.Flag("api").Value.String()
			if name == "" {
				name = config.CurrentAPI
			}

			if name == "" {
				return constants.ErrNoAPIsConfigured
			}

			apiConfig, exists := config.APIs[name]
			if !exists {
				return fmt.Errorf("%w: '%s'", constants.ErrAPIConfigNotFound, name)
			}

			if apiConfig.Username == "" && apiConfig.APIKey == "" && apiConfig.Password == "" {
				return fmt.Errorf("%w: no credentials stored for '%s'", constants.ErrNotAuthenticated, name)
			}

			// Clear authentication data
			apiConfig.Username = ""
			apiConfig.APIKey = ""
			apiConfig.Password = ""

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged out from '%s'\n", name)
			return nil
		},
	}
}
