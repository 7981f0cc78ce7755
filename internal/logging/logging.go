// Package logging configures the process-wide structured logger.
//
// All output goes to stderr: stdout belongs to the stdio MCP transport and
// must carry nothing but protocol frames.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseLevel maps a level name to a slog level. Unknown names fall back to
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds a handler writing to w in the given format. Anything
// other than "text" produces JSON.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	if strings.EqualFold(strings.TrimSpace(format), FormatText) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Setup initializes the global logger with the given level and format.
func Setup(level, format string) {
	logger := slog.New(NewHandler(os.Stderr, level, format))
	slog.SetDefault(logger)
}
