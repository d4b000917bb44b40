// Package logger wraps log/slog behind a small structured-logging interface
// so handlers and services log with typed fields and request-scoped context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lower-case level name used in config files
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps a case-insensitive level name to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a single structured key/value
type Field struct {
	Key   string
	Value any
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a field holding a list, such as matched keywords
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a field rendered by slog as a duration; used for latencies
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field for values without a typed helper. Prefer the typed
// helpers on hot paths.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err records err under the "error" key; a nil error logs as null
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger is implemented by the slog backend and by test doubles
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that always carries fields
	With(fields ...Field) Logger
	// WithContext returns a child logger carrying request_id and user_id from ctx
	WithContext(ctx context.Context) Logger

	Level() Level
}

// Config selects the level, encoding and destination of log output
type Config struct {
	Level     Level
	Format    string // "json" or "text"
	AddSource bool
	Output    io.Writer // defaults to stdout
}

// DefaultConfig is JSON at info level on stdout
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: "json",
		Output: os.Stdout,
	}
}

var defaultLogger Logger

// SetDefault replaces the process-wide logger
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the process-wide logger, creating one lazily
func Default() Logger {
	if defaultLogger == nil {
		defaultLogger = NewSlogLogger(DefaultConfig())
	}
	return defaultLogger
}

// Package-level helpers log through Default()
func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field) { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field) { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
func With(fields ...Field) Logger { return Default().With(fields...) }
