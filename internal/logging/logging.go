// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/deixis/pathtrace/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a log level string to slog.Level.
// Unknown values map to Info.
func ParseLevel(level string) slog.Level {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger configured by cfg and a Closer that releases its
// output. Logs go to stderr unless cfg.Log.File is set, in which case
// they go to a size-rotated file. stdout is never used: it carries the
// MCP stdio transport and trace output.
func New(cfg *config.Config, levelOverride string) (*slog.Logger, io.Closer) {
	level := cfg.LogLevel()
	if levelOverride != "" {
		level = levelOverride
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.LogMaxSizeMB(),
			MaxBackups: cfg.LogMaxBackups(),
			Compress:   true,
		}
		w, closer = lj, lj
	}

	return slog.New(newHandler(w, cfg.Log.Format, ParseLevel(level))), closer
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
