// Package logger provides leveled logging for the docfiler CLI.
// Warnings and errors are always written to stderr. When verbose mode is
// enabled via the --verbose flag, debug and info messages are written too,
// which helps users follow a batch through extraction, resolution and filing.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	zlog              = build(os.Stderr, false)
)

// build creates a console logger writing to w. Colour is only used when w
// is a terminal.
func build(w io.Writer, v bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if v {
		level = zerolog.DebugLevel
	}

	noColour := true
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		noColour = false
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColour,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	zlog = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	zlog = build(output, verbose)
}

// Component returns a structured logger tagged with the component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zlog.With().Str("component", name).Logger()
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Debug().Msgf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Debug().Msgf("=== %s ===", name)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Warn().Msgf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Error().Msgf(format, args...)
}
