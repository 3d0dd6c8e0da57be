// Package logger provides a simple wrapper around slog for structured logging.
// Output goes to a log file rather than stderr because the TUI owns the
// terminal while the program runs.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global logger instance. Until Init is called it discards
// output so that log lines never bleed into the TUI.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init redirects logging to the file at path, creating parent directories as
// needed. The returned closer flushes and closes the log file.
func Init(path string) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	Logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return f, nil
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
