// Package log provides structured logging for the inkwell CLI.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures and returns the process-wide logger. Verbose enables
// debug-level output; otherwise only warnings and errors are shown so
// check results stay readable on stdout.
func Setup(verbose bool) zerolog.Logger {
	return SetupWriter(os.Stderr, verbose)
}

// SetupWriter is Setup with an explicit output, for tests.
func SetupWriter(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}
