// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup(cfg.App.LogLevel)          // level from configuration
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Levels: debug, info, warn, error (default: info)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the named level.
func Setup(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetupWithLevel(l)
	return nil
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New returns a tint logger writing to w. Color is disabled unless w is
// the process's stderr.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    w != os.Stderr,
		}),
	)
}

// ParseLevel maps debug, info, warn and error to a slog level. The empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
