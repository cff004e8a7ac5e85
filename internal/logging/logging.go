// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a logger.
type Options struct {
	Level  string
	Format string // "console" or "json"
	Writer io.Writer
	// RunID tags every line. A fresh UUID is generated when empty.
	RunID string
}

// New returns a logger writing to opt.Writer (stderr by default). Stdout is
// left alone so "wrote <path>" lines stay machine readable.
func New(opt Options) zerolog.Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(strings.TrimSpace(opt.Format)) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	runID := opt.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return zerolog.New(w).
		Level(parseLevel(opt.Level)).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()
}

// parseLevel maps a level name to zerolog, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
