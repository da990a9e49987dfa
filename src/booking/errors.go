package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("booking: not found")
	ErrForbidden = errors.New("booking: forbidden")
	ErrConflict  = errors.New("booking: room is not available for the selected dates")
)

// ValidationError rejects malformed or semantically invalid input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: %s", e.Reason)
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps a repository failure. Callers may retry reads; writes
// must re-check availability before retrying.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("booking: %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
