// Package logging wraps github.com/charmbracelet/log to give cmd/server,
// the gateway, and the dispatcher one structured logger, grounded on
// lox-pokerforbots' use of the same library for its bots' operational
// logging.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to stderr at level, falling back to info
// for an unrecognized level string.
func New(level string) *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetLevel(parseLevel(level))
	logger.SetReportTimestamp(true)
	return logger
}

func parseLevel(level string) log.Level {
	switch level {
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
