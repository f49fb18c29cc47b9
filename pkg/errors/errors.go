// Package errors provides structured error types for nepdate.
//
// Every failure surfaced by the conversion client carries one of the codes
// below, so callers can branch on the failure category without parsing
// messages:
//
//   - TIMEOUT: the round trip exceeded the client timeout
//   - NETWORK_ERROR: DNS, connection or other transport failure
//   - INVALID_INPUT: the server (HTTP 400) or local validation rejected the date
//   - ENDPOINT_NOT_FOUND: HTTP 404
//   - SERVER_ERROR: HTTP 5xx
//   - API_ERROR: HTTP 200 with "success": false in the body
//   - RETRIES_EXHAUSTED: every retry attempt failed; wraps the last failure
//   - CANCELED: the caller's context ended during a backoff, batch pause or
//     shared cache miss; wraps the context error
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid date: %d-%d-%d", y, m, d)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the conversion failure taxonomy.
const (
	ErrCodeTimeout          Code = "TIMEOUT"
	ErrCodeNetwork          Code = "NETWORK_ERROR"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeNotFound         Code = "ENDPOINT_NOT_FOUND"
	ErrCodeServer           Code = "SERVER_ERROR"
	ErrCodeAPI              Code = "API_ERROR"
	ErrCodeRetriesExhausted Code = "RETRIES_EXHAUSTED"
	ErrCodeCanceled         Code = "CANCELED"

	// Local configuration errors, never produced by a request.
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Status  int    // HTTP status code, 0 when no response was received
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

// WithStatus records the HTTP status that produced e and returns e.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted, so a
// RETRIES_EXHAUSTED error does not also report the code it wraps.
// Use [Has] to search the whole chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in err's chain carries code.
func Has(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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
