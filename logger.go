package memogo

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// LogLevel selects how chatty a cache is.
type LogLevel int

const (
	// LogSilent discards all log output.
	LogSilent LogLevel = iota
	// LogNormal logs warnings and operational notes (compression, skipped
	// remote writes, load failures).
	LogNormal
	// LogVerbose additionally logs per-save and per-load details.
	LogVerbose
)

func (l LogLevel) String() string {
	switch l {
	case LogSilent:
		return "silent"
	case LogVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

var defaultLogLevel atomic.Int32

func init() {
	defaultLogLevel.Store(int32(LogNormal))
}

// SetDefaultLogLevel sets the process-wide log level for caches that don't
// configure their own. Setting LogSilent here silences every cache, including
// those with a per-instance level.
func SetDefaultLogLevel(level LogLevel) {
	defaultLogLevel.Store(int32(level))
}

// DefaultLogLevel returns the process-wide log level.
func DefaultLogLevel() LogLevel {
	return LogLevel(defaultLogLevel.Load())
}

// Logger wraps slog.Logger with memogo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithID adds the cache id field to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("cache_id", id),
	}
}

// newLevelLogger maps a LogLevel onto a text logger.
func newLevelLogger(level LogLevel) *Logger {
	switch level {
	case LogSilent:
		return NoopLogger()
	case LogVerbose:
		return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return NewLogger(nil)
	}
}
