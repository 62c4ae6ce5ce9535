package replay

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airstick/airstick/internal/jstest"
	"github.com/airstick/airstick/joystick"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRecording(t *testing.T, dir, name string, evs ...joystick.Event) string {
	t.Helper()
	path := filepath.Join(dir, name+Ext)
	require.NoError(t, os.WriteFile(path, jstest.PackRecords(t, evs...), 0o644))
	return path
}

func testBackend(t *testing.T, dir string) *Backend {
	t.Helper()
	return New(&joystick.CreateOptions{Logger: quietLogger(), Path: dir})
}

func TestDevicesListsRecordings(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "bravo", jstest.Init(jstest.Axis(0, 0)))
	writeRecording(t, dir, "alpha", jstest.Init(jstest.Axis(0, 0)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jsrec"), 0o755))

	devs, err := testBackend(t, dir).Devices()
	require.NoError(t, err)
	assert.Equal(t, []joystick.Descriptor{
		{ID: 0, Name: "alpha"},
		{ID: 1, Name: "bravo"},
	}, devs)
}

func TestOpenFoldsInitBlock(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "pad",
		jstest.Init(jstest.Axis(0, 16384)),
		jstest.Init(jstest.Axis(1, -32768)),
		jstest.Init(jstest.Button(0, 1)),
	)

	b := testBackend(t, dir)
	require.NoError(t, b.Open(0))

	info, err := b.Info()
	require.NoError(t, err)
	assert.Equal(t, "pad", info.Name)
	assert.Equal(t, 2, info.Axes)
	assert.Equal(t, 1, info.Buttons)

	state, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1.0}, state.Axes)
	assert.Equal(t, []int{1}, state.Buttons)
}

func TestOpenMissingInitBlock(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "live-only", jstest.Axis(0, 100), jstest.Button(0, 1))

	err := testBackend(t, dir).Open(0)
	assert.ErrorContains(t, err, "missing initial state block")
}

func TestOpenTruncatedRecording(t *testing.T) {
	dir := t.TempDir()
	data := jstest.PackRecords(t, jstest.Init(jstest.Axis(0, 0)))
	data = append(data, 0xde, 0xad, 0xbe, 0xef)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cut"+Ext), data, 0o644))

	err := testBackend(t, dir).Open(0)
	assert.ErrorContains(t, err, "truncated record at offset 8")
}

func TestOpenUnknownID(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "pad", jstest.Init(jstest.Axis(0, 0)))

	b := testBackend(t, dir)
	assert.ErrorIs(t, b.Open(1), os.ErrNotExist)
	assert.ErrorIs(t, b.Open(-1), os.ErrNotExist)
}

func TestOpenTwice(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "a", jstest.Init(jstest.Axis(0, 0)))
	writeRecording(t, dir, "b", jstest.Init(jstest.Axis(0, 0)))

	b := testBackend(t, dir)
	require.NoError(t, b.Open(0))
	assert.NoError(t, b.Open(0))
	assert.ErrorIs(t, b.Open(1), joystick.ErrAlreadyOpen)
}

func TestReadBeforeOpen(t *testing.T) {
	b := testBackend(t, t.TempDir())
	_, err := b.Read()
	assert.ErrorIs(t, err, joystick.ErrNotOpened)
	_, err = b.Info()
	assert.ErrorIs(t, err, joystick.ErrNotOpened)
}

func TestReadPacesByTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "session",
		jstest.Init(jstest.Axis(0, 0)),
		jstest.At(jstest.Axis(0, 8192), 1000),
		jstest.At(jstest.Axis(0, 16384), 1100),
		jstest.At(jstest.Axis(0, -32768), 1300),
	)

	b := testBackend(t, dir)
	current := time.Unix(1700000000, 0)
	b.now = func() time.Time { return current }
	require.NoError(t, b.Open(0))

	// The first live record anchors the timeline, so it is due right away.
	state, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, state.Axes)

	// 150ms in: the record 100ms after the anchor is due, 300ms is not.
	current = current.Add(150 * time.Millisecond)
	state, err = b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, state.Axes)

	current = current.Add(200 * time.Millisecond)
	state, err = b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.0}, state.Axes)

	// Exhausted recordings keep reporting the final state.
	current = current.Add(time.Hour)
	state, err = b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.0}, state.Axes)
}

func TestReadSnapshotIsolation(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "pad", jstest.Init(jstest.Axis(0, 16384)))

	b := testBackend(t, dir)
	require.NoError(t, b.Open(0))

	first, err := b.Read()
	require.NoError(t, err)
	first.Axes[0] = 99

	second, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, second.Axes)
}

func TestCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "a", jstest.Init(jstest.Axis(0, 0)))
	writeRecording(t, dir, "b", jstest.Init(jstest.Button(0, 1)))

	b := testBackend(t, dir)
	require.NoError(t, b.Open(0))
	assert.NoError(t, b.Close())
	assert.NoError(t, b.Close())

	_, err := b.Read()
	assert.ErrorIs(t, err, joystick.ErrNotOpened)

	require.NoError(t, b.Open(1))
	state, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.Buttons)
}

func decodeAll(t *testing.T, data []byte) []joystick.Event {
	t.Helper()
	require.Zero(t, len(data)%joystick.EventSize)
	var evs []joystick.Event
	for off := 0; off < len(data); off += joystick.EventSize {
		var ev joystick.Event
		require.NoError(t, ev.UnmarshalBinary(data[off:off+joystick.EventSize]))
		evs = append(evs, ev)
	}
	return evs
}

func TestRecorderWriteInit(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	state := joystick.State{Axes: []float64{0.5, -1.0}, Buttons: []int{1, 0}}
	require.NoError(t, rec.WriteInit(state))

	evs := decodeAll(t, buf.Bytes())
	require.Len(t, evs, 4)
	for _, ev := range evs {
		assert.True(t, ev.IsInit())
	}
	assert.True(t, evs[0].IsAxis())
	assert.Equal(t, int16(16384), evs[0].Value)
	assert.Equal(t, int16(-32768), evs[1].Value)
	assert.True(t, evs[2].IsButton())
	assert.Equal(t, int16(1), evs[2].Value)
	assert.Equal(t, int16(0), evs[3].Value)
}

func TestRecorderDropsRecordsUntilArmed(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	// Records drained while opening arrive before the snapshot exists.
	rec.Log(jstest.PackRecord(t, jstest.Axis(0, 123)))
	assert.Zero(t, buf.Len())

	require.NoError(t, rec.WriteInit(joystick.State{Axes: []float64{0}}))
	rec.Log(jstest.PackRecord(t, jstest.Axis(0, 16384)))
	require.NoError(t, rec.Err())

	evs := decodeAll(t, buf.Bytes())
	require.Len(t, evs, 2)
	assert.True(t, evs[0].IsInit())
	assert.False(t, evs[1].IsInit())
	assert.Equal(t, int16(16384), evs[1].Value)
}

func TestRecorderRejectsBadLength(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	require.NoError(t, rec.WriteInit(joystick.State{Buttons: []int{0}}))
	before := buf.Len()

	rec.Log([]byte{1, 2, 3})
	assert.ErrorContains(t, rec.Err(), "record 3 bytes")

	// The error is sticky; later records are not appended.
	rec.Log(jstest.PackRecord(t, jstest.Button(0, 1)))
	assert.Equal(t, before, buf.Len())
}

func TestRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	require.NoError(t, rec.WriteInit(joystick.State{
		Axes:    []float64{0.5, 0},
		Buttons: []int{0},
	}))
	rec.Log(jstest.PackRecord(t, jstest.At(jstest.Button(0, 1), 2000)))
	require.NoError(t, rec.Err())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capture"+Ext), buf.Bytes(), 0o644))

	b := testBackend(t, dir)
	require.NoError(t, b.Open(0))

	info, err := b.Info()
	require.NoError(t, err)
	assert.Equal(t, 2, info.Axes)
	assert.Equal(t, 1, info.Buttons)

	state, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0}, state.Axes)
	assert.Equal(t, []int{1}, state.Buttons)
}

func TestDenormalizeAxis(t *testing.T) {
	assert.Equal(t, int16(0), denormalizeAxis(0))
	assert.Equal(t, int16(16384), denormalizeAxis(0.5))
	assert.Equal(t, int16(-32768), denormalizeAxis(-1.0))
	assert.Equal(t, int16(32767), denormalizeAxis(1.0))
	assert.Equal(t, int16(32767), denormalizeAxis(2.5))
	assert.Equal(t, int16(-32768), denormalizeAxis(-3))
}
