package cli

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger creates a text slog.Logger writing to w at the given level.
func newLogger(level string, w io.Writer) *slog.Logger {
	logLevel := toLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}))
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
