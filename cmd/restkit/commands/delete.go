package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete RESOURCE ID",
		Short: "Delete an object",
		Long:  "Delete a single object from a resource",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete %s '%s'? (y/N): ", args[0], args[1])

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
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

			_, err = resource.Delete(ctx, args[1], nil)
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted %s '%s'\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
