package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/tastypie"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// YAML formatting.
	defaultYAMLIndent = 2
)

// renderJSON writes data to stdout as indented JSON.
func renderJSON[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", constants.JSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// renderYAML writes data to stdout as YAML.
func renderYAML[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderObject outputs a single decoded object in the configured format.
func renderObject(object map[string]interface{}) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		return renderJSON(object)
	case constants.FormatYAML:
		return renderYAML(object)
	default:
		return renderObjectTable(object)
	}
}

// renderObjectTable displays one object as a Property/Value table.
func renderObjectTable(object map[string]interface{}) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	for _, key := range sortedKeys(object) {
		_ = table.Append([]string{key, formatCellValue(object[key])})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderObjectList outputs a list of decoded objects in the configured format.
func renderObjectList(objects []map[string]interface{}) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		return renderJSON(objects)
	case constants.FormatYAML:
		return renderYAML(objects)
	default:
		return renderObjectListTable(objects)
	}
}

// renderObjectListTable displays objects as rows, with columns taken from
// the first object's keys.
func renderObjectListTable(objects []map[string]interface{}) error {
	if len(objects) == 0 {
		_, _ = os.Stdout.WriteString("No results\n")

		return nil
	}

	columns := sortedKeys(objects[0])

	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, object := range objects {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, formatCellValue(object[column]))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// formatCellValue renders a decoded JSON value for a table cell. Nested
// structures are collapsed to compact JSON and long values truncated.
func formatCellValue(value interface{}) string {
	if value == nil {
		return constants.NotAvailable
	}

	switch v := value.(type) {
	case string:
		return truncateCell(v)
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return truncateCell(string(data))
	default:
		return truncateCell(fmt.Sprintf("%v", v))
	}
}

func truncateCell(value string) string {
	if len(value) > constants.TableCellLimit {
		return value[:constants.TableCellLimit] + "..."
	}

	return value
}

func sortedKeys(object map[string]interface{}) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// ensureResource returns the named resource, registering it on first use.
func ensureResource(client *tastypie.Client, name string) (*tastypie.Resource, error) {
	if resource, ok := client.Resource(name); ok {
		return resource, nil
	}

	return client.AddResource(name)
}

// parseRequestBody reads the request body from --data, --file, or stdin
// ("-") and decodes it as JSON. Returns nil when no body was provided.
func parseRequestBody(data, file string) (interface{}, error) {
	var (
		raw []byte
		err error
	)

	switch {
	case data != "":
		raw = []byte(data)
	case file == "-":
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body from stdin: %w", err)
		}
	case file != "":
		raw, err = os.ReadFile(filepath.Clean(file))
		if err != nil {
			return nil, fmt.Errorf("failed to read request body file: %w", err)
		}
	default:
		return nil, nil
	}

	var body interface{}

	err = json.Unmarshal(raw, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request body as JSON: %w", err)
	}

	return body, nil
}

// parseKeyValues converts KEY=VALUE pairs into query values.
func parseKeyValues(pairs []string) (url.Values, error) {
	values := url.Values{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValuePair, pair)
		}

		values.Add(key, value)
	}

	return values, nil
}
