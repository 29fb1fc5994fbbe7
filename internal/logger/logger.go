// Package logger builds the slog loggers used across ctop.
// Text output goes through tint so terminals get colored levels; json output
// uses the standard JSON handler for log shippers.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DebugEnv forces debug level regardless of configuration when set.
const DebugEnv = "CTOP_DEBUG"

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// ValidLevel reports whether name is a level ParseLevel understands.
func ValidLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// New creates a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if os.Getenv(DebugEnv) != "" {
		lvl = slog.LevelDebug
	}

	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	}))
}

// NewFile opens (or creates) path for appending and returns a logger on it
// plus a close function.
func NewFile(path, level, format string) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return New(f, level, format), f.Close, nil
}

// Noop returns a logger that discards all records.
func Noop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// defaultLogger is the package-level default logger.
var defaultLogger = New(os.Stderr, "info", FormatText)

// Default returns the default logger for the package.
func Default() *slog.Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package and for slog.
func SetDefault(l *slog.Logger) {
	defaultLogger = l
	slog.SetDefault(l)
}
