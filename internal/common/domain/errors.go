package domain

import "errors"

// ErrorKind classifies an AppError for transport mapping.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindForbidden    ErrorKind = "forbidden"
	KindInvalidState ErrorKind = "invalid_state"
)

// AppError is a terminal domain error with a stable code and message.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an AppError of the given kind.
func New(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// NewValidationError creates a generic validation error.
func NewValidationError(message string) *AppError {
	return New(KindValidation, "VALIDATION_ERROR", message)
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return New(KindConflict, "CONFLICT", message)
}

// KindOf returns the kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
