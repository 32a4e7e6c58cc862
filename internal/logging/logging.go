package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a leveled logger writing to w.
// Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "peptidemine",
	})
	logger.SetLevel(levelFromString(level))
	return logger
}

// Discard returns a logger that drops everything, for tests and library callers
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func levelFromString(value string) log.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
