package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var supportedMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// NewRequestCommand creates the request command for raw API calls.
func NewRequestCommand() *cobra.Command {
	var (
		data    string
		file    string
		query   []string
		headers map[string]string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a raw API request",
		Long:  "Send an arbitrary HTTP request to a path under the API root",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			if !supportedMethods[method] {
				return fmt.Errorf("%w: %s", constants.ErrInvalidMethod, args[0])
			}

			path := args[1]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			body, err := parseRequestBody(data, file)
			if err != nil {
				return err
			}

			queryValues, err := parseKeyValues(query)
			if err != nil {
				return err
			}

			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			resp, err := client.Handler().Do(ctx, &restkit.Request{
				Method:  method,
				Path:    path,
				Query:   queryValues,
				Body:    body,
				Headers: headers,
			})
			if err != nil && resp == nil {
				return fmt.Errorf("request failed: %w", err)
			}

			renderErr := renderRawResponse(resp)
			if renderErr != nil {
				return renderErr
			}

			// Error statuses still fail the command after the body is shown
			return err
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVar(&file, "file", "", "file containing the JSON request body, '-' for stdin")
	cmd.Flags().StringArrayVar(&query, "query", nil, "query parameter as KEY=VALUE, repeatable")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "extra request header as KEY=VALUE")

	return cmd
}

// renderRawResponse prints a raw response in the configured format. JSON
// bodies honor --output, anything else is printed as status plus body.
func renderRawResponse(resp *restkit.Response) error {
	output := viper.GetString("output")

	var decoded interface{}
	if len(resp.Body) > 0 && json.Unmarshal(resp.Body, &decoded) == nil {
		switch output {
		case constants.FormatJSON:
			return renderJSON(decoded)
		case constants.FormatYAML:
			return renderYAML(decoded)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "HTTP %s\n", resp.Status)

	if len(resp.Body) == 0 {
		return nil
	}

	body := string(resp.Body)
	if len(body) > constants.BodyDisplayLimit {
		body = body[:constants.BodyDisplayLimit] + "..."
	}

	_, _ = fmt.Fprintln(os.Stdout, body)

	return nil
}
