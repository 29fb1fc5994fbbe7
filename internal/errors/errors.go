package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig    = "CONFIG"
	ErrSSH       = "SSH"
	ErrTransport = "TRANSPORT" // remote channel could not be opened or closed abnormally
	ErrFormat    = "FORMAT"    // stream arrived but the expected content was missing
	ErrExec      = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrTransport code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrTransport,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Transport reports a failure to open, read, or cleanly close the remote
// channel for host.
func Transport(host string, err error) *Error {
	return &Error{
		Code:    ErrTransport,
		Message: fmt.Sprintf("No snapshot from '%s'", host),
		Cause:   err,
	}
}

// Format reports a stream from host that arrived intact but lacked the
// content the parsers need.
func Format(host string, err error) *Error {
	return &Error{
		Code:    ErrFormat,
		Message: fmt.Sprintf("Unreadable snapshot from '%s'", host),
		Cause:   err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single line "message: cause" form, suitable for log
// attributes and one-line status displays.
func (e *Error) Short() string {
	if e.Cause == nil {
		return e.Message
	}
	cause := e.Cause.Error()
	var inner *Error
	if errors.As(e.Cause, &inner) {
		cause = inner.Short()
	}
	return e.Message + ": " + strings.TrimSpace(cause)
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var ctopErr *Error
	if errors.As(err, &ctopErr) {
		return ctopErr.Code == code
	}
	return false
}

// Summary returns a one-line description of err, using Short for
// structured errors.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var ctopErr *Error
	if errors.As(err, &ctopErr) {
		return ctopErr.Short()
	}
	return err.Error()
}
