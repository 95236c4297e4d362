// Package errors provides the typed error taxonomy shared by the BookVerse client.
//
// Usage:
//
//	// In the gateway - classify failures
//	if resp.StatusCode == http.StatusNotFound {
//	    return errors.NotFoundf("book %d not found", id)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrNetwork) {
//	    notifier.Error(err, "Failed to load books")
//	}
//
//	// Or switch on the code
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeValidation:
//	        // keep the form open
//	    case errors.CodeNotFound:
//	        // the book is already gone
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	// CodeNetwork is a transport failure: no response was received.
	CodeNetwork Code = "NETWORK"
	// CodeServer is any non-2xx response.
	CodeServer Code = "SERVER"
	// CodeNotFound is a 404 response. It is a server error.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation is a client-side check that failed before any request was sent.
	CodeValidation Code = "VALIDATION"
	// CodeStale marks a response superseded by a newer one.
	CodeStale Code = "STALE"
	// CodeInternal is a client bug or an undecodable payload.
	CodeInternal Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Status is the HTTP status for server errors, zero otherwise.
	Status int   `json:"status,omitempty"`
	cause  error // unexported, for wrapping
}

// Error implements the error interface.
// An error without a message reads as its cause.
func (e *Error) Error() string {
	switch {
	case e.cause != nil && e.Message == "":
		return e.cause.Error()
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code. A not-found error
// also matches ErrServer, since a 404 is a non-2xx response.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == CodeNotFound && t.Code == CodeServer
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Status:  e.Status,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Status:  e.Status,
		cause:   err,
	}
}

// WithStatus records the HTTP status that produced the error.
func (e *Error) WithStatus(status int) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Status:  status,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNetwork    = &Error{Code: CodeNetwork, Message: "network error"}
	ErrServer     = &Error{Code: CodeServer, Message: "server error"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrStale      = &Error{Code: CodeStale, Message: "stale response"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// Network creates a transport error wrapping cause.
func Network(msg string, cause error) *Error {
	return &Error{Code: CodeNetwork, Message: msg, cause: cause}
}

// Server creates a server error for a non-2xx status.
func Server(status int, msg string) *Error {
	return &Error{Code: CodeServer, Message: msg, Status: status}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg, Status: 404}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...), Status: 404}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Stale creates an error for a superseded response.
func Stale(msg string) *Error {
	return &Error{Code: CodeStale, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// UserMessage returns the text to show the user for err.
// Server and validation errors carry a specific message; transport and
// unknown errors fall back to the caller's default.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return fallback
	}
	switch domainErr.Code {
	case CodeServer, CodeNotFound, CodeValidation:
		if domainErr.Message != "" {
			return domainErr.Message
		}
	case CodeNetwork, CodeStale, CodeInternal:
	}
	return fallback
}
