package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "schema [RESOURCE]",
		Short: "Show resource schemas",
		Long:  "Fetch and display the schema for one resource, or for all discovered resources with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			if all {
				return showAllSchemas(ctx, client)
			}

			if len(args) == 0 {
				return constants.ErrResourceNameRequired
			}

			resource, err := ensureResource(client, args[0])
			if err != nil {
				return err
			}

			schema, err := resource.Schema(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch schema: %w", err)
			}

			return renderObject(schema)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "fetch schemas for all discovered resources")

	return cmd
}

// showAllSchemas fetches every discovered resource's schema. Individual
// failures are collected so one broken resource does not hide the rest.
func showAllSchemas(ctx context.Context, client *tastypie.Client) error {
	err := client.FindResources(ctx)
	if err != nil {
		return fmt.Errorf("failed to discover resources: %w", err)
	}

	var result *multierror.Error

	schemas := make(map[string]map[string]interface{})

	for _, name := range client.Resources() {
		resource, ok := client.Resource(name)
		if !ok {
			continue
		}

		schema, err := resource.Schema(ctx)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		schemas[name] = schema
	}

	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		err = renderJSON(schemas)
	case constants.FormatYAML:
		err = renderYAML(schemas)
	default:
		err = displaySchemasTable(client.Resources(), schemas)
	}

	if err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func displaySchemasTable(names []string, schemas map[string]map[string]interface{}) error {
	for _, name := range names {
		schema, ok := schemas[name]
		if !ok {
			continue
		}

		_, _ = fmt.Fprintf(os.Stdout, "Schema for '%s':\n", name)

		err := renderObjectTable(schema)
		if err != nil {
			return err
		}

		_, _ = os.Stdout.WriteString("\n")
	}

	return nil
}
