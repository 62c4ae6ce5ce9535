// Package jstest fabricates raw joystick wire records for tests.
package jstest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/lunixbochs/struc"

	"github.com/airstick/airstick/joystick"
)

// Axis returns a live axis event with the given index and wire value.
func Axis(number uint8, value int16) joystick.Event {
	return joystick.Event{Value: value, Type: joystick.EventAxis, Number: number}
}

// Button returns a live button event with the given index and value.
func Button(number uint8, value int16) joystick.Event {
	return joystick.Event{Value: value, Type: joystick.EventButton, Number: number}
}

// Init marks an event as part of the open-time state replay.
func Init(ev joystick.Event) joystick.Event {
	ev.Type |= joystick.EventInit
	return ev
}

// At stamps an event with a millisecond timestamp.
func At(ev joystick.Event, ms uint32) joystick.Event {
	ev.Time = ms
	return ev
}

// PackRecord encodes one event into its 8 byte wire form.
func PackRecord(t *testing.T, ev joystick.Event) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := struc.PackWithOptions(&buf, &ev, &struc.Options{Order: binary.LittleEndian}); err != nil {
		t.Fatalf("pack record: %v", err)
	}
	if buf.Len() != joystick.EventSize {
		t.Fatalf("packed record is %d bytes, want %d", buf.Len(), joystick.EventSize)
	}
	return buf.Bytes()
}

// PackRecords encodes a sequence of events into one concatenated stream.
func PackRecords(t *testing.T, evs ...joystick.Event) []byte {
	t.Helper()
	var out []byte
	for _, ev := range evs {
		out = append(out, PackRecord(t, ev)...)
	}
	return out
}
