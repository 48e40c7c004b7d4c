package service

import (
	"errors"
	"fmt"
	"strings"

	"formkit/internal/forms"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors carries the per-field messages of a rejected form. It matches
// ErrValidation with errors.Is.
type FieldErrors struct {
	Fields forms.FieldErrors
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields.Fields() {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}

func fieldErrors(errs forms.FieldErrors) error {
	return &FieldErrors{Fields: errs}
}

func validationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func conflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

func unauthorizedError(message string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, message)
}
