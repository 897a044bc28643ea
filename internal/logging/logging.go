// Package logging builds the shell's diagnostic logger. Diagnostics never go
// to standard output, which belongs to commands and shell messages.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const Prefix = "mysh"

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	formatter, ok := formatters[format]
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       formatter,
	}), nil
}

// WithSession tags every entry with a fresh session id so the logs of
// concurrent shells can be told apart.
func WithSession(logger *log.Logger) *log.Logger {
	return logger.With("session", uuid.NewString())
}
