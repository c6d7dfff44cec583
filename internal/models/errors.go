package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input rejected before any write
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned by repositories on a uniqueness violation.
	// Services recover from it and never hand it to callers.
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrExpired    = errors.New("expired")
	ErrNoActor    = errors.New("no actor: guardian has no pets")
	ErrForbidden  = errors.New("forbidden")
	ErrDependency = errors.New("dependency unavailable")

	ErrSelfFollow = &ValidationError{Field: "target_pet_id", Reason: "cannot follow a pet of your own account"}
	ErrSelfChat   = &ValidationError{Field: "participant", Reason: "cannot open a chat with yourself"}
)

// ValidationError describes which input was rejected and why
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Dependency wraps a store or channel failure
func Dependency(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrDependency, err)
}
