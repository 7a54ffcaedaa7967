// Package capture implements start/stop-bounded accumulation of uploaded
// audio. A Capture handle exclusively owns its buffer: bytes written before
// End are returned exactly, bytes arriving after are rejected. There is no
// shared recorder state between handles.
package capture

import (
	"bytes"
	"errors"
	"sync"

	"github.com/jonathan/interview-screener/internal/faults"
)

// ErrFinalized is returned for any use of a handle after End or Discard.
var ErrFinalized = errors.New("capture already finalized")

// Recorder issues capture handles with a shared size cap.
type Recorder struct {
	maxBytes int
}

// NewRecorder creates a Recorder. maxBytes <= 0 disables the cap.
func NewRecorder(maxBytes int) *Recorder {
	return &Recorder{maxBytes: maxBytes}
}

// Begin opens a new capture handle.
func (r *Recorder) Begin() *Capture {
	return &Capture{max: r.maxBytes}
}

// Capture accumulates one upload. It implements io.Writer so request bodies
// can be drained straight into it.
type Capture struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	max    int
	sealed bool
}

// Write appends p to the capture. It fails once the handle is finalized or
// when the size cap would be exceeded.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return 0, ErrFinalized
	}
	if c.max > 0 && c.buf.Len()+len(p) > c.max {
		return 0, faults.Validation("audio", "capture exceeds maximum size of %d bytes", c.max)
	}
	return c.buf.Write(p)
}

// End seals the handle and returns exactly the bytes written before the call.
// A handle can be ended once.
func (c *Capture) End() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return nil, ErrFinalized
	}
	c.sealed = true
	return c.buf.Bytes(), nil
}

// Discard seals the handle and drops its contents.
func (c *Capture) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
	c.buf.Reset()
}

// Size reports the bytes accumulated so far.
func (c *Capture) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}
