// Package errors defines the coded errors reported by the capture pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// QueryFailure: a tmux listing command failed or produced no usable output.
	QueryFailure Code = "QUERY_FAILURE"
	// ParseFailure: a list-panes record had the wrong shape.
	ParseFailure Code = "PARSE_FAILURE"
	// ResolutionMiss: no command line could be found for a pane.
	ResolutionMiss Code = "RESOLUTION_MISS"
	// WriteFailure: a restore script could not be written.
	WriteFailure Code = "WRITE_FAILURE"
)

// Error is a coded error with optional context.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value pair to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first coded error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
