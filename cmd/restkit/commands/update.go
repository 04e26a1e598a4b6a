package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "update RESOURCE ID",
		Short: "Update an object",
		Long:  "Replace an object with the given JSON body (HTTP PUT)",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
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

			resp, err := resource.Update(ctx, args[1], body)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", args[0], err)
			}

			if len(resp.Body) == 0 {
				_, _ = fmt.Fprintf(os.Stdout, "Updated %s '%s'\n", args[0], args[1])

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
