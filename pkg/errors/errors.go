// Package errors provides structured error types for forcegraph.
//
// Every failure surfaced by the visualization controller, the dataset loader
// and the CLI carries a machine-readable [Code] so callers can tell a missing
// drawing surface apart from a malformed dataset without string matching.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - PRECONDITION_*: the component is not in a state to perform the call
//   - INVALID_*: caller-provided data or options were rejected
//   - *_FAILED / *_ERROR: something went wrong while doing the work
//
// # Usage
//
//	err := errors.New(errors.ErrCodePrecondition, "no container bound: %s", sel)
//	if errors.Is(err, errors.ErrCodePrecondition) {
//	    // call Init first
//	}
//
//	err := errors.Wrap(errors.ErrCodeConstruction, cause, "build scene")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller did something out of order or passed nothing to work with
	ErrCodePrecondition Code = "PRECONDITION_FAILED"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDataset  Code = "INVALID_DATASET"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Work failures
	ErrCodeBinding      Code = "BINDING_ERROR"
	ErrCodeConstruction Code = "CONSTRUCTION_FAILED"
	ErrCodeExport       Code = "EXPORT_FAILED"

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

// UserMessage returns the message without the code prefix for *Error values
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recovered converts a value obtained from recover() into a construction
// error. Non-error panics are formatted with %v.
func Recovered(r any, format string, args ...any) *Error {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("panic: %v", r)
	}
	return Wrap(ErrCodeConstruction, cause, format, args...)
}
