// internal/logging/logger.go

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds logger configuration
type Config struct {
	Level  string
	Format string
}

// New creates a structured logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, cfg Config) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	}
	if strings.EqualFold(cfg.Format, "json") {
		opts.Formatter = log.JSONFormatter
	}

	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
