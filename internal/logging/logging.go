// Package logging provides optional debug logging for poolstrap.
//
// All operator-facing diagnostics go to the terminal; the file log exists
// only for --debug runs, so failed bootstraps can be reported with a trace.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// LogDirName is the log directory beneath the project root.
const LogDirName = ".poolstrap"

// LogFileName is the debug log file name.
const LogFileName = "poolstrap.log"

// Setup initializes JSON file logging under root and returns the logger
// and a cleanup function that closes the log file.
func Setup(root string) (*slog.Logger, func(), error) {
	dir := filepath.Join(root, LogDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(handler)

	cleanup := func() {
		_ = f.Close()
	}
	return logger, cleanup, nil
}

// Discard returns a logger that drops everything. Used when --debug is off
// so stages can log unconditionally.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
