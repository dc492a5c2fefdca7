package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger switches the process-wide provider to structured JSON
// records on stdout at the given minimum level ("debug", "info", "warn"
// or "error"). Records carry Cloud Logging field names so they ingest
// without a parsing layer. Panics on an unknown level string.
func SetupLogger(loglevel string) {
	SetLoggerProvider(newJSONProvider(os.Stdout, ToLogLevel(loglevel)))
}

// newJSONProvider builds a SlogProvider whose records use the Cloud
// Logging field names and include caller source locations. Error
// attributes still gain stacktraces through the ErrFmtHandler wrap.
func newJSONProvider(w io.Writer, level slog.Level) *SlogProvider {
	lv := &slog.LevelVar{}
	lv.Set(level)
	ops := slog.HandlerOptions{
		AddSource:   true,
		Level:       lv,
		ReplaceAttr: renameForIngest,
	}
	handler := slog.NewJSONHandler(w, &ops)
	return &SlogProvider{
		level: lv,
		base:  slog.New(WrapByErrFmtHandler(handler)),
	}
}

// renameForIngest maps slog's built-in record keys to the Cloud Logging
// field names.
func renameForIngest(groups []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.LevelKey:
		attr.Key = "severity"
	case slog.MessageKey:
		attr.Key = "message"
	case slog.SourceKey:
		attr.Key = "logging.googleapis.com/sourceLocation"
	}
	return attr
}

// ToLogLevel parses a level name into a slog.Level. Unknown names are a
// configuration bug, so it panics rather than defaulting silently.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error as the attribute the stacktrace handler watches.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
