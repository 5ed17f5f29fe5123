package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the use cases and mapped to transport status codes by the adapters
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError describes a rejected input, optionally per field.
// errors.Is(err, ErrValidation) reports true for any *ValidationError.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError creates a ValidationError without field details
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is makes ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a field-level message and returns the error for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// HasFields reports whether any field-level message was recorded
func (e *ValidationError) HasFields() bool {
	return len(e.Fields) > 0
}

// UnauthorizedError carries a client-safe reason while matching ErrUnauthorized
type UnauthorizedError struct {
	Reason string
}

// NewUnauthorizedError creates an UnauthorizedError with the given reason
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Reason
}

// Is makes UnauthorizedError match ErrUnauthorized
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// Error pairs a sentinel kind (ErrNotFound, ErrConflict...) with a client-safe message
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel kind to errors.Is
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewNotFoundError creates an error matching ErrNotFound
func NewNotFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// NewConflictError creates an error matching ErrConflict
func NewConflictError(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}
