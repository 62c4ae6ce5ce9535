package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/airstick/airstick/joystick"
)

// rawLogger implements joystick.RawLogger with a thread-safe hex dump.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a raw record logger writing one hex line per record.
// If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) joystick.RawLogger {
	return &rawLogger{w: w}
}

// Log emits a single-line hex dump of one wire record with timestamp.
func (r *rawLogger) Log(data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s record: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
