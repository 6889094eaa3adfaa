// Package errors provides structured error types for diagram generation.
//
// Error codes are machine-readable and shared by the CLI, the preview
// server, and the TUI so failures can be classified consistently:
//   - INVALID_*: input validation failures (bad structure, prune spec, format)
//   - CONFIG_*: configuration file problems
//   - RENDER_FAILED / EXPORT_IO: generation and output failures
//
// No error in this system is fatal to the process. Callers surface the
// message, keep the last good state, and allow a retry; the worst
// outcome is a skipped or stale preview frame.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidStructure, "layer %d has size 0", i)
//	if errors.Is(err, errors.ErrCodeInvalidStructure) {
//	    // reject the edit, keep the previous value
//	}
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidStructure Code = "INVALID_STRUCTURE"
	ErrCodeInvalidPruneSpec Code = "INVALID_PRUNE_SPEC"
	ErrCodeInvalidVisual    Code = "INVALID_VISUAL"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Configuration file errors
	ErrCodeConfigNotFound Code = "CONFIG_NOT_FOUND"

	// Generation and output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeExportIO     Code = "EXPORT_IO"

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
