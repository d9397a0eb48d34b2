// Package logging builds the process logger from configuration. The returned
// *log.Logger satisfies core.Logger structurally.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"todocore/internal/config"
	"todocore/internal/core"
)

var _ core.Logger = (*log.Logger)(nil)

// New builds a leveled structured logger writing to w. The prefix names the
// emitting binary.
func New(w io.Writer, prefix string, cfg *config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.LogLevel),
		Formatter:       ParseFormatter(cfg.LogFormat),
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// Unknown values fall back to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log
// Formatter. Unknown values fall back to text.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
