// Package errors provides structured error types for clrfp.
//
// Every failure that can reach the command line or the HTTP service carries
// a machine-readable [Code]. The code decides the process exit status (see
// [ExitCode]) and the HTTP status returned by the server, so callers never
// have to match on message text.
//
// # Error Codes
//
//   - INPUT_*: the requested input combination cannot be served
//   - KEY_*: the key material could not be read
//   - FINGERPRINT_*: no fingerprint was found in the supplied text
//   - INVALID_FINGERPRINT_*: a bare fingerprint token failed validation
//   - INVALID_OPTION / INVALID_PATH: flag, config or request validation
//   - INTERNAL_ERROR: unexpected failures (encoding, cache, I/O)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFingerprintNotFound, "no fingerprint in input")
//	if errors.Is(err, errors.ErrCodeFingerprintNotFound) {
//	    // Handle missing fingerprint
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeKeyUnavailable, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input resolution errors
	ErrCodeInputConflict  Code = "INPUT_SOURCE_CONFLICT"
	ErrCodeKeyUnavailable Code = "KEY_SOURCE_UNAVAILABLE"

	// Extraction errors
	ErrCodeFingerprintNotFound Code = "FINGERPRINT_NOT_FOUND"

	// Bare fingerprint validation errors
	ErrCodeOddLength  Code = "INVALID_FINGERPRINT_ODD_LENGTH"
	ErrCodeByteLength Code = "INVALID_FINGERPRINT_LENGTH"
	ErrCodeBadChar    Code = "INVALID_FINGERPRINT_CHAR"

	// Option validation errors
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

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

// IsInvalidFingerprint reports whether err is one of the bare token
// validation failures.
func IsInvalidFingerprint(err error) bool {
	switch GetCode(err) {
	case ErrCodeOddLength, ErrCodeByteLength, ErrCodeBadChar:
		return true
	}
	return false
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

// Exit statuses. Each error category exits with its own status so shell
// scripts can tell them apart.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitConflict       = 3
	ExitKeyUnavailable = 4
	ExitNotFound       = 5
	ExitInvalid        = 6
	ExitInterrupted    = 130
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeInputConflict:
		return ExitConflict
	case ErrCodeKeyUnavailable:
		return ExitKeyUnavailable
	case ErrCodeFingerprintNotFound:
		return ExitNotFound
	case ErrCodeOddLength, ErrCodeByteLength, ErrCodeBadChar:
		return ExitInvalid
	case ErrCodeInvalidOption, ErrCodeInvalidPath:
		return ExitUsage
	default:
		return ExitFailure
	}
}
