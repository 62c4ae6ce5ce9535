package joystick

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpened is returned by operations that need an open device.
	ErrNotOpened = errors.New("no joystick is opened")
	// ErrAlreadyOpen is returned by Open when the instance already holds a
	// different device.
	ErrAlreadyOpen = errors.New("a joystick is already opened")
)

// RangeError reports a record whose index exceeds the capabilities queried
// at open time. It indicates a desynchronized stream or a capability
// mismatch and aborts the read cycle that hit it.
type RangeError struct {
	// Kind is "axis" or "button".
	Kind  string
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range (device reports %d)", e.Kind, e.Index, e.Count)
}
