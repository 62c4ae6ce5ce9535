// Package replay plays captured joystick sessions back through the regular
// backend interface. A recording is a flat file of 8 byte wire records
// (extension .jsrec) as produced by Recorder: a leading block of init
// records defines the device's capabilities, the live records after it are
// paced by their millisecond timestamps relative to Open time.
//
// The package registers itself as the "replay" backend. It exists for
// development and tests on machines without a physical stick.
package replay

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/airstick/airstick/joystick"
)

// Ext is the file extension of recording files.
const Ext = ".jsrec"

func init() {
	joystick.RegisterBackend("replay", &registration{})
}

type registration struct{}

func (registration) NewDevice(o *joystick.CreateOptions) (joystick.Device, error) {
	return New(o), nil
}

// Backend replays recordings from a directory. Not safe for concurrent
// use; callers serialize all calls on one instance.
type Backend struct {
	logger *slog.Logger
	dir    string
	now    func() time.Time

	opened   bool
	id       int
	info     joystick.Info
	state    joystick.State
	pending  []joystick.Event
	start    time.Time
	base     uint32
	haveBase bool
}

// New returns a Backend replaying recordings from o.Path (the current
// directory when empty).
func New(o *joystick.CreateOptions) *Backend {
	b := &Backend{
		logger: slog.Default(),
		dir:    ".",
		now:    time.Now,
	}
	if o != nil {
		if o.Logger != nil {
			b.logger = o.Logger
		}
		if o.Path != "" {
			b.dir = o.Path
		}
	}
	return b
}

// Devices lists the recordings in the directory, ordered by file name.
// The position in the listing is the id used by Open.
func (b *Backend) Devices() ([]joystick.Descriptor, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", b.dir, err)
	}
	var devs []joystick.Descriptor
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		devs = append(devs, joystick.Descriptor{
			ID:   len(devs),
			Name: strings.TrimSuffix(e.Name(), Ext),
		})
	}
	return devs, nil
}

// Open loads the id-th recording, derives the replayed device's
// capabilities from its init block and folds that block into the initial
// state. Live records start playing relative to now.
func (b *Backend) Open(id int) error {
	if b.opened {
		if id == b.id {
			b.logger.Debug("recording already opened", "id", id)
			return nil
		}
		return joystick.ErrAlreadyOpen
	}

	devs, err := b.Devices()
	if err != nil {
		return err
	}
	if id < 0 || id >= len(devs) {
		return fmt.Errorf("open recording %d: %w", id, os.ErrNotExist)
	}
	path := filepath.Join(b.dir, devs[id].Name+Ext)

	events, err := loadRecords(path)
	if err != nil {
		return err
	}

	// The leading run of init records is the capability declaration of the
	// recorded device; a file without one cannot size the state.
	var axes, buttons, n int
	for ; n < len(events) && events[n].IsInit(); n++ {
		switch {
		case events[n].IsAxis():
			axes++
		case events[n].IsButton():
			buttons++
		}
	}
	if axes+buttons == 0 {
		return fmt.Errorf("recording %s: missing initial state block", path)
	}

	state := joystick.NewState(axes, buttons)
	for _, ev := range events[:n] {
		if err := state.Apply(ev); err != nil {
			return fmt.Errorf("recording %s: %w", path, err)
		}
	}

	b.info = joystick.Info{Name: devs[id].Name, Axes: axes, Buttons: buttons}
	b.state = state
	b.pending = events[n:]
	b.start = b.now()
	b.base = 0
	b.haveBase = false
	b.id = id
	b.opened = true
	b.logger.Info("recording opened",
		"id", id, "name", b.info.Name, "axes", axes, "buttons", buttons, "events", len(b.pending))
	return nil
}

// Read folds every record whose timestamp is due by now and returns the
// resulting snapshot. Like a real device drain it never blocks; records
// scheduled in the future stay pending.
func (b *Backend) Read() (joystick.State, error) {
	if !b.opened {
		return joystick.State{}, joystick.ErrNotOpened
	}
	elapsed := uint32(b.now().Sub(b.start) / time.Millisecond)
	for len(b.pending) > 0 {
		ev := b.pending[0]
		if !b.haveBase {
			b.base = ev.Time
			b.haveBase = true
		}
		if ev.Time-b.base > elapsed {
			break
		}
		if err := b.state.Apply(ev); err != nil {
			return joystick.State{}, fmt.Errorf("replay event: %w", err)
		}
		b.pending = b.pending[1:]
	}
	return b.state.Clone(), nil
}

// Info reports the capabilities derived from the recording's init block.
func (b *Backend) Info() (joystick.Info, error) {
	if !b.opened {
		return joystick.Info{}, joystick.ErrNotOpened
	}
	return b.info, nil
}

// Close drops the open recording. Safe to call repeatedly.
func (b *Backend) Close() error {
	if !b.opened {
		return nil
	}
	b.opened = false
	b.pending = nil
	b.info = joystick.Info{}
	b.state = joystick.State{}
	return nil
}

// loadRecords reads and decodes a whole recording file.
func loadRecords(path string) ([]joystick.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	if len(data)%joystick.EventSize != 0 {
		return nil, fmt.Errorf("recording %s: truncated record at offset %d",
			path, len(data)-len(data)%joystick.EventSize)
	}
	events := make([]joystick.Event, 0, len(data)/joystick.EventSize)
	for off := 0; off < len(data); off += joystick.EventSize {
		var ev joystick.Event
		if err := ev.UnmarshalBinary(data[off : off+joystick.EventSize]); err != nil {
			return nil, fmt.Errorf("recording %s: %w", path, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
