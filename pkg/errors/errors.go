// Package errors provides structured error types for tracegrid.
//
// Errors carry a machine-readable [Code] so the CLI, the HTTP server and the
// highlighter can react to a failure category without string matching:
//
//	err := errors.New(errors.ErrCodeInvalidMatrix, "unknown matrix number %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidMatrix) {
//	    // reply 400
//	}
//
// # Codes
//
//   - INVALID_*: input validation failures (computation bundles, flags, config)
//   - NOT_FOUND: unknown session, path index or cell
//   - STALE_CELL: a path cell no longer exists in the rendered grid
//   - INVALID_TRANSITION: a move between two matrices that cannot be coupled
//   - INTERNAL_ERROR: anything else
//
// STALE_CELL is recovered locally by the highlighter and only logged.
// INVALID_TRANSITION is a caller contract violation and is raised as a panic.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidMatrix Code = "INVALID_MATRIX"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Rendering errors
	ErrCodeStaleCell         Code = "STALE_CELL"
	ErrCodeInvalidTransition Code = "INVALID_TRANSITION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// HTTPStatus maps an error code to the status the server replies with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidMatrix, ErrCodeInvalidFormat:
		return 400
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return 404
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
