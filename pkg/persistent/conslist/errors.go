package conslist

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when the head or tail of an empty list is
	// requested.
	ErrEmpty = errors.New("empty list")
	// ErrInvalidArgument is returned when a required argument is absent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedFormat is returned when a byte stream does not carry the
	// list envelope.
	ErrUnsupportedFormat = errors.New("unsupported list format")
)

// SerializationError wraps an element codec failure with the zero-based
// position of the element, counted from the head of the list.
type SerializationError struct {
	Op  string
	Pos int64
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("could not %s element at 0-based position %d: %v", e.Op, e.Pos, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
