package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")
	// ErrGone marks a resource that was already soft-deleted.
	ErrGone = errors.New("resource already deleted")
)

// ValidationError carries field-level messages for a 422 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
