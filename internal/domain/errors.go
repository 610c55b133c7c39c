package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an order, report or notification id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks missing or malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted detail.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}
