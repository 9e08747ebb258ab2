// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrStorageUnavailable marks errors caused by the underlying data store
// being unreachable or failing. Callers may retry; the service never does.
var ErrStorageUnavailable = errors.New("storage unavailable")

// NotFoundError is returned when a product with the given ID does not exist.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}

// ValidationError is returned when input fails validation before any
// store access. Field names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps an I/O-level failure of the data store.
// It matches errors.Is(err, ErrStorageUnavailable).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage unavailable: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
