// Package log provides the structured logging facade used by the
// estimators in this module.
//
// The Logger interface mirrors log/slog's leveled methods so the backing
// implementation can be swapped without touching call sites: the default
// provider writes slog JSON records, tests install a capturing provider,
// and programs can redirect everything with SetLoggerProvider. On top of
// the plain slog surface the package defines attribute-key constants for
// the recurring training vocabulary (sample counts, depths, offsets,
// losses) so that records from different estimators stay queryable by the
// same field names.
//
// Typical use inside an estimator:
//
//	logger := log.GetLoggerWithName("cfrac.regressor")
//	logger.Info("Training CFRegressor",
//	    log.SamplesKey, rows,
//	    log.FeaturesKey, cols,
//	    log.MaxDepthKey, depth,
//	)
package log

import (
	"context"
)

// Logger is the leveled, structured logging contract. Fields are
// alternating key-value pairs exactly as log/slog accepts them, so any
// slog-style backend can satisfy the interface with a thin adapter.
type Logger interface {
	// Debug records detailed diagnostics, such as per-depth progress
	// during fitting. Disabled by default.
	Debug(msg string, fields ...any)

	// Info records operational milestones, such as the start and
	// completion of a training run.
	Info(msg string, fields ...any)

	// Warn records recoverable conditions, such as a solver running out
	// of iterations before converging.
	Warn(msg string, fields ...any)

	// Error records failures. When a field value is an error produced by
	// this module, the backing handler extracts and attaches its
	// stacktrace.
	Error(msg string, fields ...any)

	// With returns a logger that includes the given fields on every
	// subsequent record. Used to pin a component or model name once:
	//
	//	fitLog := logger.With(log.ModelNameKey, "GBTRegressor")
	With(fields ...any) Logger

	// Enabled reports whether a record at the given level would be
	// emitted, letting callers skip expensive field construction.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level. The numeric values match slog.Level so the
// two convert by plain casting.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the conventional upper-case name of the level.
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

// LoggerProvider creates configured loggers. Implementations own the
// output destination and the minimum level; the package-level GetLogger
// helpers delegate to the installed provider.
type LoggerProvider interface {
	// GetLogger returns the provider's root logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name
	// under ComponentKey.
	GetLoggerWithName(name string) Logger

	// SetLevel adjusts the minimum level for every logger the provider
	// has handed out.
	SetLevel(level Level)
}
