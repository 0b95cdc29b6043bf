// Package logging configures the shared structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w. Level names follow the usual set
// (debug, info, warn, error); anything else falls back to info. JSON
// output is for log collectors, text for terminals.
func New(w io.Writer, level string, json bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           parseLevel(level),
	})
	if json {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Default returns a text logger on stderr at info level. Stderr keeps
// logs out of stdout, which the MCP binary uses for the protocol.
func Default() *log.Logger {
	return New(os.Stderr, "info", false)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
