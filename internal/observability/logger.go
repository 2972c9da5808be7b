// Package observability provides structured logging helpers for storage and
// retrieval operations.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldOpID is the field name for operation ID.
	LogFieldOpID = "op_id"
	// LogFieldOperation is the field name for the operation kind.
	LogFieldOperation = "operation"
	// LogFieldBackend is the field name for the vector store backend.
	LogFieldBackend = "backend"
	// LogFieldDocID is the field name for a record identifier.
	LogFieldDocID = "doc_id"
	// LogFieldCount is the field name for a record/result count.
	LogFieldCount = "count"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
	// LogFieldPath is the field name for a file path.
	LogFieldPath = "path"
	// LogFieldLine is the field name for a line number in a jsonl file.
	LogFieldLine = "line"
)

// NewLogger creates the process-wide logger. Dev mode gets human-readable
// text output at debug level, everything else JSON at info level.
func NewLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// OpContext carries structured logging state for a single storage operation.
type OpContext struct {
	OpID      string
	Operation string
	Backend   string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewOpContext creates an operation context with a generated operation ID.
func NewOpContext(logger *slog.Logger, operation, backend string) *OpContext {
	return &OpContext{
		OpID:      uuid.New().String(),
		Operation: operation,
		Backend:   backend,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// Info logs an info message with the operation's base attributes.
func (o *OpContext) Info(msg string, attrs ...slog.Attr) {
	o.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, o.combined(attrs)...)
}

// Debug logs a debug message with the operation's base attributes.
func (o *OpContext) Debug(msg string, attrs ...slog.Attr) {
	o.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, o.combined(attrs)...)
}

// Warn logs a warning message with the operation's base attributes.
func (o *OpContext) Warn(msg string, attrs ...slog.Attr) {
	o.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, o.combined(attrs)...)
}

// Error logs an error message with the error attached.
func (o *OpContext) Error(msg string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("error", err.Error()))
	o.Logger.LogAttrs(context.Background(), slog.LevelError, msg, o.combined(attrs)...)
}

// DurationMs returns the elapsed time in milliseconds.
func (o *OpContext) DurationMs() int64 {
	return time.Since(o.StartTime).Milliseconds()
}

func (o *OpContext) combined(attrs []slog.Attr) []slog.Attr {
	base := []slog.Attr{
		slog.String(LogFieldOpID, o.OpID),
		slog.String(LogFieldOperation, o.Operation),
		slog.String(LogFieldBackend, o.Backend),
	}
	return append(base, attrs...)
}
