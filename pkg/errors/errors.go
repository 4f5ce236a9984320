// Package errors provides structured error types for spatialdigraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each failure class of the graph-geometry model has its own code:
//   - INVALID_USAGE: wrong arity to geometry/feature accessors
//   - NOT_FOUND: referenced node/edge absent, or missing coords attribute
//   - INVALID_CONFIG: bad identity method, or bylocation without precision
//   - INVALID_SCHEMA: unsupported declared property type during write
//   - CRS_MISMATCH: node and edge layers disagree on CRS during read
//   - DANGLING_ENDPOINT: edge endpoint matches no loaded node
//   - DRIVER_ERROR: vector dataset driver failure
//   - PROJECTION_ERROR: coordinate transform could not be built or applied
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUsage, "must provide at least one node")
//	if errors.Is(err, errors.ErrCodeUsage) {
//	    // Handle usage error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDriver, origErr, "open dataset %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure classes of the graph-geometry model.
const (
	// ErrCodeUsage marks wrong arity passed to geometry or feature accessors.
	ErrCodeUsage Code = "INVALID_USAGE"

	// ErrCodeNotFound marks a referenced node or edge that is absent from the
	// graph, or one that lacks the required coords attribute.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeConfig marks an invalid identity-resolution method or a
	// bylocation read without a precision.
	ErrCodeConfig Code = "INVALID_CONFIG"

	// ErrCodeSchema marks an unsupported declared property type in a write
	// schema. Schema validation happens before any record is emitted.
	ErrCodeSchema Code = "INVALID_SCHEMA"

	// ErrCodeCRSMismatch marks node and edge layers that disagree on their
	// coordinate reference system during a read.
	ErrCodeCRSMismatch Code = "CRS_MISMATCH"

	// ErrCodeDanglingEndpoint marks an edge whose resolved endpoint does not
	// correspond to any loaded node, under either identity mode.
	ErrCodeDanglingEndpoint Code = "DANGLING_ENDPOINT"

	// ErrCodeDriver marks a vector dataset driver failure (open, read, write).
	ErrCodeDriver Code = "DRIVER_ERROR"

	// ErrCodeProjection marks a coordinate transform that could not be built
	// or applied.
	ErrCodeProjection Code = "PROJECTION_ERROR"

	// ErrCodeInternal marks unexpected internal errors.
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
