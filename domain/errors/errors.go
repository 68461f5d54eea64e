// Package errors provides domain-specific error values for wheelhost.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
)

var (
	// ErrPathNotAllowed is returned when a path lies outside every allowed root.
	ErrPathNotAllowed = stdErrors.New("path not allowed")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = stdErrors.New("file too large")

	// ErrNoItems is returned when a wheel configuration has no usable items.
	ErrNoItems = stdErrors.New("wheel has no items")

	// ErrNoActiveItems is returned when every wheel item is disabled.
	ErrNoActiveItems = stdErrors.New("wheel has no active items")

	// ErrUnknownItem is returned when toggling an item the wheel does not have.
	ErrUnknownItem = stdErrors.New("unknown wheel item")
)

// FileAccessError reports a file read refused by host policy, before any
// filesystem access happened.
type FileAccessError struct {
	Err    error
	Path   string
	Detail string
}

func (e *FileAccessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("read %s: %v (%s)", e.Path, e.Err, e.Detail)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// WheelError reports a failed wheel operation.
type WheelError struct {
	Err       error
	Operation string
	Item      string
}

func (e *WheelError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("wheel %s %q: %v", e.Operation, e.Item, e.Err)
	}
	return fmt.Sprintf("wheel %s: %v", e.Operation, e.Err)
}

func (e *WheelError) Unwrap() error {
	return e.Err
}
