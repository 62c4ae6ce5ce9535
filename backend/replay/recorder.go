package replay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/lunixbochs/struc"

	"github.com/airstick/airstick/joystick"
)

// Recorder captures a raw record stream into the replay file format. Wire
// it as the raw logger of a live backend: records are dropped until
// WriteInit arms it, so every recording starts with one coherent snapshot
// instead of whatever happened to drain while opening.
type Recorder struct {
	w     io.Writer
	mu    sync.Mutex
	armed bool
	err   error
}

// NewRecorder returns a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// WriteInit synthesizes the leading init block from a state snapshot and
// arms the recorder. Replay derives the recorded device's capabilities
// from this block.
func (r *Recorder) WriteInit(state joystick.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, v := range state.Axes {
		ev := joystick.Event{
			Value:  denormalizeAxis(v),
			Type:   joystick.EventAxis | joystick.EventInit,
			Number: uint8(i),
		}
		if err := r.pack(ev); err != nil {
			return err
		}
	}
	for i, v := range state.Buttons {
		ev := joystick.Event{
			Value:  int16(v),
			Type:   joystick.EventButton | joystick.EventInit,
			Number: uint8(i),
		}
		if err := r.pack(ev); err != nil {
			return err
		}
	}
	r.armed = true
	return nil
}

// Log implements joystick.RawLogger. Records arrive already wire encoded
// and are appended verbatim. Write failures are sticky and surfaced via
// Err, since the raw logger contract has no error return.
func (r *Recorder) Log(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed || r.err != nil {
		return
	}
	if len(data) != joystick.EventSize {
		r.err = fmt.Errorf("record %d bytes, want %d", len(data), joystick.EventSize)
		return
	}
	if _, err := r.w.Write(data); err != nil {
		r.err = err
	}
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) pack(ev joystick.Event) error {
	var buf bytes.Buffer
	if err := struc.PackWithOptions(&buf, &ev, &struc.Options{Order: binary.LittleEndian}); err != nil {
		return err
	}
	if _, err := r.w.Write(buf.Bytes()); err != nil {
		r.err = err
		return err
	}
	return nil
}

// denormalizeAxis maps a normalized axis position back to the wire range.
func denormalizeAxis(v float64) int16 {
	n := int(v * 32768)
	if n > 32767 {
		n = 32767
	}
	if n < -32768 {
		n = -32768
	}
	return int16(n)
}
