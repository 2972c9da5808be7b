package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for storage and AI operations.
type ErrorCode string

const (
	// ErrCodeInvalidConfig indicates an unusable configuration, such as an
	// unknown vector store backend. Fatal at construction time.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeStorageUnavailable indicates the backing store could not be
	// reached or written. Recoverable per call.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	// ErrCodeCorruptRecord indicates a persisted record failed to parse.
	ErrCodeCorruptRecord ErrorCode = "CORRUPT_RECORD"
	// ErrCodeConsistency indicates the index and its metadata log disagree.
	ErrCodeConsistency ErrorCode = "CONSISTENCY_VIOLATION"
	// ErrCodeDimensionMismatch indicates an embedding whose length differs
	// from the dimensionality fixed by the first insert.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	// ErrCodeNotFound indicates the requested record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeServiceUnavailable indicates an external AI service failure.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// StoreError represents a structured error for storage operations.
type StoreError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// New creates a StoreError with the given code and message.
func New(code ErrorCode, message string) *StoreError {
	return &StoreError{Code: code, Message: message}
}

// Newf creates a StoreError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StoreError {
	return &StoreError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a StoreError wrapping a cause.
func Wrap(cause error, code ErrorCode, message string) *StoreError {
	return &StoreError{Code: code, Message: message, Cause: cause}
}

// Code extracts the ErrorCode from err, walking the wrap chain.
// Returns an empty code when err carries no StoreError.
func Code(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*StoreError); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// IsFatal reports whether err is a configuration error that should abort
// startup instead of degrading the current call.
func IsFatal(err error) bool {
	return Code(err) == ErrCodeInvalidConfig
}
