// Package errors provides structured errors for vitedge with stable
// codes, suggestions, and errors.Is/As support.
package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryWatch    Category = "watch"
	CategoryRoutes   Category = "routes"
	CategoryDispatch Category = "dispatch"
	CategoryDeploy   Category = "deploy"
	CategoryCLI      Category = "cli"
)

// Error is a structured error with a stable code and a fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, watch, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a longer explanation to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithSuggestion adds a fix hint to the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// Wrap attaches an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an error from a registered code. Unknown codes produce a
// generic CLI error carrying the code.
func New(code string) *Error {
	if tmpl, ok := registry[code]; ok {
		return &Error{
			Code:     code,
			Category: tmpl.Category,
			Message:  tmpl.Message,
			Detail:   tmpl.Detail,
		}
	}
	return &Error{Code: code, Category: CategoryCLI, Message: "unknown error"}
}

// Newf creates an unregistered error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}
