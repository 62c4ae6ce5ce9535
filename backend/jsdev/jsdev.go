// Package jsdev reads joystick state through the Linux kernel joystick
// interface (/dev/input/js*).
//
// Device nodes are opened read-only and non blocking. Read drains every
// queued wire record and folds it into the tracked state, so polling never
// suspends the calling goroutine. The package registers itself as the
// "jsdev" backend.
package jsdev

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/airstick/airstick/joystick"
)

const (
	devicePathPrefix = "/dev/input/js"
	sysInputDir      = "/sys/class/input"
)

func init() {
	joystick.RegisterBackend("jsdev", &registration{})
}

type registration struct{}

func (registration) NewDevice(o *joystick.CreateOptions) (joystick.Device, error) {
	return New(o), nil
}

// Backend reads one kernel joystick device at a time. Not safe for
// concurrent use; callers serialize all calls on one instance.
type Backend struct {
	logger *slog.Logger
	raw    joystick.RawLogger
	sysDir string

	// open acquires the device node and queries its capabilities; swapped
	// out by tests to run against fabricated record streams.
	open func(id int) (io.ReadCloser, joystick.Info, error)

	opened bool
	id     int
	dev    io.ReadCloser
	info   joystick.Info
	state  joystick.State
}

// New returns a Backend reading from the kernel joystick interface.
func New(o *joystick.CreateOptions) *Backend {
	b := &Backend{
		logger: slog.Default(),
		sysDir: sysInputDir,
	}
	if o != nil {
		if o.Logger != nil {
			b.logger = o.Logger
		}
		b.raw = o.Raw
	}
	b.open = b.openDevice
	return b
}

// Devices scans sysfs for joystick nodes and returns them ordered by id.
// Entries whose name attribute cannot be read are skipped; one broken
// entry never aborts the scan.
func (b *Backend) Devices() ([]joystick.Descriptor, error) {
	entries, err := os.ReadDir(b.sysDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", b.sysDir, err)
	}
	var devs []joystick.Descriptor
	for _, e := range entries {
		entry := e.Name()
		if !strings.HasPrefix(entry, "js") {
			continue
		}
		id, err := strconv.Atoi(entry[2:])
		if err != nil {
			continue
		}
		name, err := os.ReadFile(filepath.Join(b.sysDir, entry, "device", "name"))
		if err != nil {
			b.logger.Debug("skipping joystick entry", "entry", entry, "error", err)
			continue
		}
		devs = append(devs, joystick.Descriptor{
			ID:   id,
			Name: strings.TrimSpace(string(name)),
		})
	}
	sort.Slice(devs, func(i, j int) bool { return devs[i].ID < devs[j].ID })
	return devs, nil
}

// Open acquires /dev/input/js<id>, queries its capabilities and drains the
// initial state replay so the first Read already reflects real positions.
// Opening the already open id again is a no-op; a different id while one
// is open returns joystick.ErrAlreadyOpen.
func (b *Backend) Open(id int) error {
	if b.opened {
		if id == b.id {
			b.logger.Debug("joystick already opened", "id", id)
			return nil
		}
		return joystick.ErrAlreadyOpen
	}

	dev, info, err := b.open(id)
	if err != nil {
		return err
	}

	// The driver queues one init record per axis and button at open time.
	// Their absence means a broken device, so any failure here, including
	// would-block, fails the open.
	state := joystick.NewState(info.Axes, info.Buttons)
	buf := make([]byte, joystick.EventSize)
	for i := 0; i < info.Axes+info.Buttons; i++ {
		n, err := dev.Read(buf)
		if err != nil {
			_ = dev.Close()
			return fmt.Errorf("drain initial state: %w", err)
		}
		if n != joystick.EventSize {
			_ = dev.Close()
			return fmt.Errorf("drain initial state: short record (%d bytes)", n)
		}
		if err := b.decodeRecord(&state, buf); err != nil {
			_ = dev.Close()
			return fmt.Errorf("drain initial state: %w", err)
		}
	}

	b.dev = dev
	b.info = info
	b.state = state
	b.id = id
	b.opened = true
	b.logger.Info("joystick opened",
		"id", id, "name", info.Name, "axes", info.Axes, "buttons", info.Buttons)
	return nil
}

// Read drains all pending records and returns the resulting snapshot.
// Would-block terminates the drain normally; everything else is an error
// for this cycle.
func (b *Backend) Read() (joystick.State, error) {
	if !b.opened {
		return joystick.State{}, joystick.ErrNotOpened
	}
	buf := make([]byte, joystick.EventSize)
	for {
		n, err := b.dev.Read(buf)
		if errors.Is(err, unix.EAGAIN) {
			break
		}
		if err != nil {
			return joystick.State{}, fmt.Errorf("read event: %w", err)
		}
		if n == 0 {
			// EOF, the device node went away under us.
			return joystick.State{}, fmt.Errorf("read event: %w", io.EOF)
		}
		if n != joystick.EventSize {
			return joystick.State{}, fmt.Errorf("read event: short record (%d bytes)", n)
		}
		if err := b.decodeRecord(&b.state, buf); err != nil {
			return joystick.State{}, fmt.Errorf("read event: %w", err)
		}
	}
	return b.state.Clone(), nil
}

// Info reports the capabilities queried when the device was opened.
func (b *Backend) Info() (joystick.Info, error) {
	if !b.opened {
		return joystick.Info{}, joystick.ErrNotOpened
	}
	return b.info, nil
}

// Close releases the device node. Safe to call repeatedly.
func (b *Backend) Close() error {
	if !b.opened {
		return nil
	}
	if err := b.dev.Close(); err != nil {
		b.logger.Debug("closing joystick", "id", b.id, "error", err)
	}
	b.opened = false
	b.dev = nil
	b.info = joystick.Info{}
	b.state = joystick.State{}
	b.logger.Debug("joystick closed", "id", b.id)
	return nil
}

// decodeRecord hands one raw record to the raw logger, decodes it and
// folds it into st.
func (b *Backend) decodeRecord(st *joystick.State, buf []byte) error {
	if b.raw != nil {
		b.raw.Log(buf)
	}
	var ev joystick.Event
	if err := ev.UnmarshalBinary(buf); err != nil {
		return err
	}
	return st.Apply(ev)
}

// openDevice opens the device node and queries its capabilities.
func (b *Backend) openDevice(id int) (io.ReadCloser, joystick.Info, error) {
	path := devicePathPrefix + strconv.Itoa(id)
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, joystick.Info{}, fmt.Errorf("open %s: %w", path, err)
	}

	axes, err := ioctlUint8(fd, jsiocgAxes)
	if err != nil {
		_ = unix.Close(fd)
		return nil, joystick.Info{}, fmt.Errorf("query axis count: %w", err)
	}
	buttons, err := ioctlUint8(fd, jsiocgButtons)
	if err != nil {
		_ = unix.Close(fd)
		return nil, joystick.Info{}, fmt.Errorf("query button count: %w", err)
	}

	info := joystick.Info{Axes: int(axes), Buttons: int(buttons)}
	// Name and driver version are informational only; a failed query
	// leaves them zero instead of failing the open.
	if name, err := ioctlName(fd); err == nil {
		info.Name = name
	} else {
		b.logger.Debug("query device name", "id", id, "error", err)
	}
	if v, err := ioctlInt32(fd, jsiocgVersion); err == nil {
		info.Version = v
	}
	return &deviceFile{fd: fd}, info, nil
}

// deviceFile wraps a raw non-blocking file descriptor. The runtime poller
// is deliberately not involved: a Read that would park the goroutine has
// no place in a poll-driven drain, so EAGAIN surfaces to the caller as is.
type deviceFile struct {
	fd int
}

func (f *deviceFile) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(f.fd, p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func (f *deviceFile) Close() error {
	return unix.Close(f.fd)
}
