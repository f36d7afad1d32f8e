// Package log provides structured logging for the screening pipeline.
//
// It defines a minimal, slog-compatible logging interface so the pipeline
// stages can report their table shapes and diagnostics without binding to a
// concrete backend, plus a JSON handler setup that folds cockroachdb/errors
// stack traces into a dedicated attribute.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.StageKey, "join",
//	)
//	logger.Info("annotation joined",
//	    log.WellsKey, 96,
//	    log.DroppedRowsKey, 1,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's
// log/slog. Fields are alternating key-value pairs, as in slog.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Pipeline diagnostics (dropped wells, clamped logits) land here.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If a field value is an error carrying a cockroachdb stack trace, the
	// handler extracts it into the stacktrace attribute.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
