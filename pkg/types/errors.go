package types

import "fmt"

// ErrorCode classifies a parse or evaluation failure.
type ErrorCode string

// Error codes. P-codes are reported by the parser, E-codes by the evaluator.
const (
	ErrEmptyExpression      ErrorCode = "P0101"
	ErrIncompleteExpression ErrorCode = "P0102"
	ErrUnmatchedParenthesis ErrorCode = "P0103"
	ErrInvalidExpression    ErrorCode = "P0104"
	ErrInvalidIdentifier    ErrorCode = "P0105"
	ErrUnknownVariable      ErrorCode = "P0106"
	ErrUnknownAnswerIndex   ErrorCode = "P0107"
	ErrMalformedNumber      ErrorCode = "P0108"

	ErrUnresolvableAnswer ErrorCode = "E0201"
)

// Error is a structured parse or evaluation error.
type Error struct {
	Code    ErrorCode
	Message string
	Context string // the offending substring, if any
	Err     error
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %q", e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithContext attaches the offending substring.
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the ErrorCode carried by err, or "" when err is not an
// *Error.
func CodeOf(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
