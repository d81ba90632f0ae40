package errors

import (
	"errors"
	"fmt"
)

// Storage-level errors shared by repositories and the services above them
var (
	// ErrNotFound indicates a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint was hit
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates missing or rejected credentials
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError wraps ErrNotFound with the resource name
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// ConflictError wraps ErrConflict with the resource name
func ConflictError(resource string) error {
	return fmt.Errorf("%s already exists: %w", resource, ErrConflict)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
