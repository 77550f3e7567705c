package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default logging configuration constants
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes where logs go. Console output always goes to the
// writer passed to New; File adds a rotated log file.
type Config struct {
	Level      string // debug, info, warn, error (default warn)
	File       string // optional log file path
	MaxSizeMB  int    // megabytes before rotation (default 10)
	MaxBackups int    // number of backups to keep (default 3)
	MaxAgeDays int    // days to keep (default 7)
	Compress   bool   // Gzip rotated files
	NoColor    bool   // plain text on the console
}

// ParseLevel maps a level name to a slog.Level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// FileWriter returns the rotating writer for c.File, or nil if unset.
func (c Config) FileWriter() io.WriteCloser {
	if c.File == "" {
		return nil
	}
	return &lj.Logger{
		Filename:   c.File,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

// New builds a logger writing to console and, if configured, to a rotated
// file. The returned closer releases the file and is never nil.
func New(c Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, nopCloser{}, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if console != nil {
		if c.NoColor {
			handlers = append(handlers, slog.NewTextHandler(console, opts))
		} else {
			handlers = append(handlers, NewColorTextHandler(console, opts))
		}
	}

	var closer io.Closer = nopCloser{}
	if fw := c.FileWriter(); fw != nil {
		// The file sink logs at info or lower.
		fileLevel := level
		if fileLevel > slog.LevelInfo {
			fileLevel = slog.LevelInfo
		}
		handlers = append(handlers, slog.NewTextHandler(fw, &slog.HandlerOptions{Level: fileLevel}))
		closer = fw
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, opts)), closer, nil
	case 1:
		return slog.New(handlers[0]), closer, nil
	default:
		return slog.New(fanout(handlers)), closer, nil
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
