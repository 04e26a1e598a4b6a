package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as discovery probes.
	ShortHTTPTimeout = 10 * time.Second
)

// Argument counts for commands.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2

	// TwoArgumentsMax indicates commands allowing up to 2 arguments.
	TwoArgumentsMax = 2
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndent is the indentation used for JSON output.
	JSONIndent = "  "

	// BodyDisplayLimit truncates response bodies in table output.
	BodyDisplayLimit = 512

	// TableCellLimit truncates long values in table cells.
	TableCellLimit = 64
)

// Pagination defaults for list commands.
const (
	// DefaultPageLimit is the default number of items requested per page.
	DefaultPageLimit = 20

	// MaxPages bounds page iteration to protect against endless "next" links.
	MaxPages = 50
)
