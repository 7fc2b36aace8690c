// Package logging provides structured logging for the settlement
// services. Console output is a compact bracketed line format; the
// json format is available for log shippers.
package logging

import (
	"log/slog"
	"os"

	"github.com/craftbooks/settlement-backend/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewScopedLogger creates a logger tagged with a subsystem name
// (e.g. "api", "reconcile") shown in the bracket prefix.
func NewScopedLogger(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
