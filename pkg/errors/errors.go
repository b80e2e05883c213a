// Package errors provides structured error types for the spritepack application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes name the failing pipeline stage or resource:
//   - EMPTY_SOURCE_SET, SOURCE_FETCH: source loading failures
//   - DECODE_FAILED: malformed source image bytes
//   - PACKING_OVERFLOW: atlas canvas growth bound exceeded
//   - AMBIGUOUS_NAME: two sources resolving to the same logical name
//   - PUBLISH_FAILED: upload of a finished artifact failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptySourceSet, "no source icons in bucket %q", bucket)
//	if errors.Is(err, errors.ErrCodeEmptySourceSet) {
//	    // Handle empty source set
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceFetch, origErr, "download %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline stage errors
	ErrCodeEmptySourceSet  Code = "EMPTY_SOURCE_SET"
	ErrCodeSourceFetch     Code = "SOURCE_FETCH"
	ErrCodeDecode          Code = "DECODE_FAILED"
	ErrCodePackingOverflow Code = "PACKING_OVERFLOW"
	ErrCodeAmbiguousName   Code = "AMBIGUOUS_NAME"
	ErrCodePublish         Code = "PUBLISH_FAILED"
	ErrCodeTiles           Code = "TILES_FAILED"

	// Input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidKey    Code = "INVALID_KEY"

	// Store / network errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
