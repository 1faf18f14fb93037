package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Fields carries structured context for the log helpers.
type Fields map[string]any

func (f Fields) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(f)+len(extra))
	attrs = append(attrs, extra...)
	for k, v := range f {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// SetupLogger installs the process-wide slog handler. format must be
// "json" or "console"; anything else fails so a config typo cannot
// silently change the output format.
func SetupLogger(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// LogError logs an error with additional context.
func LogError(err error, msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelError, msg,
		fields.attrs(slog.String("error", err.Error()))...)
}

// LogInfo logs an info message with fields.
func LogInfo(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelInfo, msg, fields.attrs()...)
}

// LogDebug logs a debug message with fields.
func LogDebug(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelDebug, msg, fields.attrs()...)
}
