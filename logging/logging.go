// Package logging configures the process-wide gookit/slog logger used by
// every cashbench package.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// ErrInvalidLevel is returned for a level name outside debug/info/warn/error.
var ErrInvalidLevel = errors.New("logging: invalid level")

var levels = map[string]slog.Level{
	"debug": slog.DebugLevel,
	"info":  slog.InfoLevel,
	"warn":  slog.WarnLevel,
	"error": slog.ErrorLevel,
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
	return lvl, nil
}

// Setup sets the standard logger level and, when file is non-empty, adds a
// JSON file handler. The returned func flushes and closes that handler.
func Setup(level, file string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	slog.SetLogLevel(lvl)

	if file == "" {
		return func() error { return nil }, nil
	}

	h, err := handler.JSONFileHandler(file, handler.WithLogLevels(slog.AllLevels))
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", file, err)
	}
	slog.PushHandler(h)
	return h.Close, nil
}
