// Package logging configures the zerolog loggers used for table-build and
// engine diagnostics.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New configures zerolog with pretty console output, suitable for
// interactive table-build runs.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewStructured configures zerolog for structured (JSON) output, suitable
// for engine runs embedded in another service.
func NewStructured(w io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Disabled returns a logger that discards everything, the default for
// library callers who haven't opted into diagnostics.
func Disabled() zerolog.Logger {
	return zerolog.Nop()
}
