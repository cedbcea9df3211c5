// ABOUTME: Logger setup for the chime CLI
// ABOUTME: Parses level and format settings into a charmbracelet logger
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a log level. Unknown names mean info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ParseFormat maps a format name to a formatter. Unknown names mean text.
func ParseFormat(name string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Setup creates a logger writing to w and installs it as the default logger
func Setup(level, format string, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormat(format),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	log.SetDefault(logger)
	return logger
}
