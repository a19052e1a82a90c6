package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init initializes the global logger with the specified level and format
func Init(level, format string) (*slog.Logger, error) {
	return InitWriter(os.Stdout, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level, format string) (*slog.Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be text or json", format)
	}

	defaultLogger = slog.New(handler)

	return defaultLogger, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", level)
	}
}

// Get returns the global logger instance
func Get() *slog.Logger {
	if defaultLogger == nil {
		// Fallback to default logger if Init wasn't called
		defaultLogger = slog.Default()
	}
	return defaultLogger
}

// ContextKey is an unexported type to prevent collisions with context keys from other packages
type ContextKey string

// LoggerContextKey is the context key used to store the logger in request contexts
const LoggerContextKey ContextKey = "logger"

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, log)
}

// GetFromContext retrieves the logger from the context.
// If no logger is found in the context, it returns the provided fallback logger.
func GetFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// FromContext is GetFromContext with the global logger as fallback.
func FromContext(ctx context.Context) *slog.Logger {
	return GetFromContext(ctx, Get())
}
