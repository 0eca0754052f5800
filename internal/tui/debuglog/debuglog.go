// ABOUTME: File-backed slog logger for the TUI
// ABOUTME: Keeps diagnostics off stdout, which bubbletea owns while running

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init routes debug logging to a file in the config directory.
// An empty configDir leaves logging disabled.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return nil
}

// Close closes the log file and disables logging
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Log records a debug message with structured attributes
func Log(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Error records an error with context
func Error(context string, err error) {
	if err == nil {
		return
	}
	current().Error(context, "error", err)
}

// Warn records a warning
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
