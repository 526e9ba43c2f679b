// internal/apperrors/errors.go

// Package apperrors defines the error kinds the service layer is allowed to
// surface. Handlers translate these to HTTP statuses; store-specific failures
// never leak past the service boundary unwrapped.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced entity does not exist (or is not
	// visible to the calling user).
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated signals that no user identity could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflict signals that the request collides with existing state,
	// such as registering an email twice.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a rejected input field with a user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps an underlying persistence failure with the operation that
// triggered it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError; it passes nil through untouched.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
