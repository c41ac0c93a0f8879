package config

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SlogLevel maps the configured level name to a slog level
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger on fallback, or a JSON logger on a rotating file when File
// is set. The returned closer releases the file.
func NewLogger(c LogConfig, fallback io.Writer) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.File == "" {
		return slog.New(slog.NewTextHandler(fallback, opts)), nopCloser{}
	}

	w := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB, // MB
		MaxBackups: c.MaxBackups,
	}
	return slog.New(slog.NewJSONHandler(w, opts)), w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
