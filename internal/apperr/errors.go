// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing user, target entity, or relation.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation marks a request that can never succeed, such as a
	// self-follow or creating a relation that already exists.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAlreadyExists marks a create of a document that is already present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrTransientStore marks a network or quota failure from the store.
	ErrTransientStore = errors.New("transient store failure")
)

// NotFound returns an error matching ErrNotFound.
func NotFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidOperation returns an error matching ErrInvalidOperation.
func InvalidOperation(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidOperation)...)
}

// TransientStore wraps a store failure so callers can match ErrTransientStore.
func TransientStore(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransientStore, err)
}

// SideEffectError records a secondary effect that failed after the primary
// mutation committed. It is logged by the service that swallowed it and is
// never returned to the caller of the primary operation.
type SideEffectError struct {
	Effect string
	Err    error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side effect %q failed: %v", e.Effect, e.Err)
}

func (e *SideEffectError) Unwrap() error { return e.Err }
