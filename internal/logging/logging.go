// Package logging builds the slog logger shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a logger writing to w. format is "json" or "text"; level is
// one of debug, info, warn, error. The logger also becomes the slog default.
func New(w io.Writer, level, format string) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
