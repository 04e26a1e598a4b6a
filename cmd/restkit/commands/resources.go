package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewResourcesCommand creates the resources command.
func NewResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "resources",
		Aliases: []string{"res"},
		Short:   "List API resources",
		Long:    "Discover and list the resources advertised by the API root directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.FindResources(ctx)
			if err != nil {
				return fmt.Errorf("failed to discover resources: %w", err)
			}

			endpoints := client.Endpoints()

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				return renderJSON(endpoints)
			case constants.FormatYAML:
				return renderYAML(endpoints)
			default:
				return displayResourcesTable(endpoints)
			}
		},
	}
}

func displayResourcesTable(endpoints map[string]tastypie.Endpoint) error {
	if len(endpoints) == 0 {
		_, _ = os.Stdout.WriteString("No resources discovered\n")

		return nil
	}

	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}

	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "List Endpoint", "Schema")

	for _, name := range names {
		endpoint := endpoints[name]
		_ = table.Append([]string{name, endpoint.ListEndpoint, endpoint.Schema})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
