package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrContextCreation indicates the request context could not be assembled
// (typically no database connection was available). The dispatcher answers
// with a plain 500 and never invokes the handler.
var ErrContextCreation = errors.New("request context creation failed")

// HTTPError is a user-visible error with everything needed to render an
// error page. Handlers return it; the error handler turns it into a response.
type HTTPError struct {
	// Err is the underlying cause, kept for logging only.
	Err error

	// Message is shown to the user.
	Message string

	// Title optionally overrides the status-derived heading.
	Title string

	// Detail is an optional extended description.
	Detail string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) { e.Title = title }
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) { e.Detail = detail }
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts an HTTPError from err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// ProgrammerError marks a programming mistake detected at request time, such
// as reversing an unregistered route. It is an ordinary, catchable error: the
// default error handler logs it loudly and answers a generic 500 instead of
// crashing the process.
type ProgrammerError struct {
	// Op names the operation that was misused, e.g. "router.Reverse".
	Op string

	// Reason describes the mistake.
	Reason string
}

func (e *ProgrammerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewProgrammerError builds a ProgrammerError with a formatted reason.
func NewProgrammerError(op, format string, args ...any) *ProgrammerError {
	return &ProgrammerError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsProgrammerError reports whether err's chain contains a ProgrammerError.
func IsProgrammerError(err error) bool {
	var pe *ProgrammerError
	return errors.As(err, &pe)
}
