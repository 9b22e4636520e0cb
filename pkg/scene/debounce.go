// debounce.go — Coalesce rapid option changes into one render.
package scene

import (
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of triggers, once the burst has
// been quiet for the delay. Each trigger gets a generation number; a render
// that finishes after a newer trigger can check Current and drop itself
// (last write wins).
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any pending call, and returns the
// generation fn will be called with.
func (d *Debouncer) Trigger(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { fn(gen) })
	return gen
}

// Current is the generation of the most recent trigger.
func (d *Debouncer) Current() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Stop cancels any pending call. Results of calls already running become
// stale.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
