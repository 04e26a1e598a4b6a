package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "create RESOURCE",
		Short: "Create an object",
		Long:  "Create a new object in a resource from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseRequestBody(data, file)
			if err != nil {
				return err
			}

			if body == nil {
				return constants.ErrBodyRequired
			}

			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			resource, err := ensureResource(client, args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()

			resp, err := resource.Create(ctx, body)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}

			// tastypie answers 201 with an empty body unless the resource
			// sets always_return_data
			if len(resp.Body) == 0 {
				if location := resp.Headers.Get("Location"); location != "" {
					_, _ = fmt.Fprintf(os.Stdout, "Created %s (%s)\n", args[0], location)
				} else {
					_, _ = fmt.Fprintf(os.Stdout, "Created %s\n", args[0])
				}

				return nil
			}

			object, err := resp.Map()
			if err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			return renderObject(object)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file containing the JSON request body, '-' for stdin")

	return cmd
}
