package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors. Callers can
// always recover by correcting their input.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Invalid is a convenience constructor for a single-field validation error.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Errors: []FieldError{{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}}}
}

// NotFoundError indicates an unknown idea, session, or task.
type NotFoundError struct {
	Resource string // "session", "breakdown", ...
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NotFound constructs a NotFoundError for the given resource and ID.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// GenerationError indicates that the content-generation collaborator failed or
// returned structurally invalid data. Surfaced to callers as a retryable
// server-side failure; the core never retries it internally.
type GenerationError struct {
	Op  string // the generator operation that failed
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed during %s", e.Op)
	}
	return fmt.Sprintf("generation failed during %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generation constructs a GenerationError wrapping err.
func Generation(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}
