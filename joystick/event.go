package joystick

import (
	"encoding/binary"
	"io"
)

// Type bits of a wire record. A record may carry the init bit combined with
// an axis or button bit.
const (
	EventButton uint8 = 0x01
	EventAxis   uint8 = 0x02
	// EventInit marks a synthetic record replaying current state right
	// after open, as opposed to a live input change.
	EventInit uint8 = 0x80
)

// EventSize is the fixed length of a wire record in bytes.
const EventSize = 8

// Event is one raw joystick wire record.
// Layout (8 bytes, little endian):
//
//	0-3: Time (u32, milliseconds)
//	4-5: Value (i16)
//	6:   Type (bitmask: 0x01 button, 0x02 axis, 0x80 init replay)
//	7:   Number (axis or button index)
type Event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// UnmarshalBinary decodes 8 bytes into Event.
func (e *Event) UnmarshalBinary(data []byte) error {
	if len(data) < EventSize {
		return io.ErrUnexpectedEOF
	}
	e.Time = binary.LittleEndian.Uint32(data[0:4])
	e.Value = int16(binary.LittleEndian.Uint16(data[4:6]))
	e.Type = data[6]
	e.Number = data[7]
	return nil
}

// IsAxis reports whether the record carries an axis position.
func (e Event) IsAxis() bool { return e.Type&EventAxis != 0 }

// IsButton reports whether the record carries a button value.
func (e Event) IsButton() bool { return e.Type&EventButton != 0 }

// IsInit reports whether the record is part of the state replay emitted
// when a device is opened.
func (e Event) IsInit() bool { return e.Type&EventInit != 0 }

// AxisValue returns the axis position normalized to [-1.0, 1.0].
func (e Event) AxisValue() float64 { return float64(e.Value) / 32768.0 }
