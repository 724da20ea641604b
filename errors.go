package hearth

import "github.com/hearthstack/hearth/internal"

// HTTPError constructors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// HTTPError options

func WithTitle(title string) HTTPErrorOption {
	return internal.WithTitle(title)
}

func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// Inspection helpers

// AsHTTPError extracts an HTTPError from err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// IsProgrammerError reports whether err's chain contains a ProgrammerError.
func IsProgrammerError(err error) bool {
	return internal.IsProgrammerError(err)
}

// NewProgrammerError builds a ProgrammerError with a formatted reason.
func NewProgrammerError(op, format string, args ...any) *ProgrammerError {
	return internal.NewProgrammerError(op, format, args...)
}
