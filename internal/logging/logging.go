package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Options controls how the process-wide logger is built.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // "text" (tint) or "json"
	NoColor bool
	Output  io.Writer
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FORMAT and NO_COLOR.
func OptionsFromEnv() Options {
	_, noColor := os.LookupEnv("NO_COLOR")
	return Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		NoColor: noColor,
		Output:  os.Stderr,
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a logger from opts without installing it.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(opts.Level)

	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    opts.NoColor,
	}))
}

// Setup installs the process-wide logger and makes it the slog default.
func Setup(opts Options) *slog.Logger {
	l := New(opts)
	logger = l
	slog.SetDefault(l)
	return l
}

// Logger returns the process-wide logger, building it from the
// environment on first use.
func Logger() *slog.Logger {
	once.Do(func() {
		if logger == nil {
			Setup(OptionsFromEnv())
		}
	})
	return logger
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// DebugWithComponent logs at debug level tagged with a component name
func DebugWithComponent(component, msg string, args ...any) {
	Logger().Debug(msg, append([]any{"component", component}, args...)...)
}

// InfoWithComponent logs at info level tagged with a component name
func InfoWithComponent(component, msg string, args ...any) {
	Logger().Info(msg, append([]any{"component", component}, args...)...)
}

// WarnWithComponent logs at warn level tagged with a component name
func WarnWithComponent(component, msg string, args ...any) {
	Logger().Warn(msg, append([]any{"component", component}, args...)...)
}

// ErrorWithComponent logs at error level tagged with a component name
func ErrorWithComponent(component, msg string, args ...any) {
	Logger().Error(msg, append([]any{"component", component}, args...)...)
}
