// Package joystick defines the backend neutral contract for polled joystick
// input. A backend enumerates attached devices, opens one of them and folds
// the device's event stream into an absolute state snapshot that callers
// poll once per control tick.
//
// Concrete backends live under backend/ and register themselves by name so
// applications can select one at runtime.
package joystick

import "log/slog"

// Descriptor identifies an attached joystick as reported by a backend scan.
type Descriptor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Info describes the capabilities of the currently open device.
type Info struct {
	Name    string `json:"name"`
	Axes    int    `json:"axes"`
	Buttons int    `json:"buttons"`
	// Version is the driver version as reported by the device, 0 if the
	// backend could not query it.
	Version int32 `json:"version,omitempty"`
}

// Device is the minimal interface a joystick backend must implement.
// Implementations are not safe for concurrent use; callers serialize all
// calls on one instance. An instance holds at most one open device.
type Device interface {
	// Devices returns a snapshot of the joysticks currently attached,
	// ordered by ID. There is no change notification; callers re-enumerate
	// when they want a fresh view.
	Devices() ([]Descriptor, error)
	// Open acquires the device with the given ID and loads its initial
	// state. Opening the already open ID again is a no-op; opening a
	// different ID while one is open returns ErrAlreadyOpen.
	Open(id int) error
	// Close releases the open device. It is safe to call repeatedly and
	// always returns nil.
	Close() error
	// Read drains every pending event without blocking and returns the
	// resulting state snapshot. The caller owns the returned slices.
	Read() (State, error)
	// Info reports the capabilities of the open device.
	Info() (Info, error)
}

// RawLogger receives each raw wire record as a backend drains it from the
// device, before decoding. Implementations must not retain data across
// calls.
type RawLogger interface {
	Log(data []byte)
}

// MultiRaw fans records out to several raw loggers. Nil entries are skipped.
func MultiRaw(loggers ...RawLogger) RawLogger {
	var ls multiRaw
	for _, l := range loggers {
		if l != nil {
			ls = append(ls, l)
		}
	}
	return ls
}

type multiRaw []RawLogger

func (m multiRaw) Log(data []byte) {
	for _, l := range m {
		l.Log(data)
	}
}

// CreateOptions carries construction parameters common to all backends.
// A nil options pointer or zero fields select defaults.
type CreateOptions struct {
	// Logger receives structured backend logs. Defaults to slog.Default().
	Logger *slog.Logger
	// Raw receives every raw wire record drained from the device. Nil
	// disables raw record logging.
	Raw RawLogger
	// Path is a backend specific filesystem root, e.g. the recording
	// directory of the replay backend. Backends without one ignore it.
	Path string
}
