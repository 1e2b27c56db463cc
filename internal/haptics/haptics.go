// Package haptics is the optional bridge to tactile feedback from the host.
// Every call is fire-and-forget; a missing bridge is never an error.
package haptics

import (
	"io"
	"sync"
)

// Durations, in milliseconds, fired at fixed points of a draw.
const (
	StartMillis  = 50
	ShakeMillis  = 30
	RevealMillis = 200
)

// Bridge vibrates for the given number of milliseconds.
type Bridge interface {
	Vibrate(ms int)
}

// Fire invokes the bridge if there is one.
func Fire(b Bridge, ms int) {
	if b == nil {
		return
	}
	b.Vibrate(ms)
}

// Bell is a terminal stand-in that rings the bell once per pulse long
// enough to be felt. Short pulses are dropped.
type Bell struct {
	mu        sync.Mutex
	w         io.Writer
	minMillis int
}

// NewBell creates a bell bridge writing to w. Pulses shorter than
// minMillis are ignored.
func NewBell(w io.Writer, minMillis int) *Bell {
	return &Bell{w: w, minMillis: minMillis}
}

// Vibrate rings the bell. Write errors are ignored.
func (b *Bell) Vibrate(ms int) {
	if b == nil || b.w == nil || ms < b.minMillis {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write([]byte{'\a'})
}

// Recorder keeps every pulse it receives (for testing).
type Recorder struct {
	mu     sync.Mutex
	pulses []int
}

// Vibrate records the pulse.
func (r *Recorder) Vibrate(ms int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, ms)
}

// Pulses returns a copy of the recorded durations.
func (r *Recorder) Pulses() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.pulses...)
}
