package commands

import (
	"os"
	"sort"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

// hclogAdapter exposes an hclog.Logger through the restkit.Logger interface.
type hclogAdapter struct {
	logger hclog.Logger
}

func (a *hclogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, flattenFields(fields)...)
}

func (a *hclogAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, flattenFields(fields)...)
}

func (a *hclogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, flattenFields(fields)...)
}

func (a *hclogAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, flattenFields(fields)...)
}

// flattenFields converts a field map into hclog's alternating key-value
// arguments. Keys are sorted so log lines are stable.
func flattenFields(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

// newCommandLogger returns a logger for client traffic when --verbose is
// set, nil otherwise so the client falls back to its no-op logger.
func newCommandLogger() restkit.Logger {
	if !viper.GetBool("verbose") {
		return nil
	}

	return &hclogAdapter{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:   "restkit",
			Level:  hclog.Debug,
			Output: os.Stderr,
		}),
	}
}
