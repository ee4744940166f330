package combobox

import (
	"sync"
	"time"
)

// Clock creates timers. The default clock is backed by time.AfterFunc;
// tests substitute a virtual clock so debounce behavior can be checked
// without waiting.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call created by a Clock.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DebounceScheduler collapses bursts of calls into a single delayed call.
//
// At most one call is pending at a time: Schedule cancels the previous
// pending call and arms a new one, so only the function passed last runs,
// once the delay has passed without another Schedule. A zero delay disables
// debouncing and runs the function immediately on the caller's goroutine.
type DebounceScheduler struct {
	mu         sync.Mutex
	clock      Clock
	delay      time.Duration
	timer      Timer
	generation uint64
}

// NewDebounceScheduler creates a scheduler. Negative delays are treated as
// zero and a nil clock selects the wall clock.
func NewDebounceScheduler(delay time.Duration, clock Clock) *DebounceScheduler {
	if delay < 0 {
		delay = 0
	}
	if clock == nil {
		clock = realClock{}
	}
	return &DebounceScheduler{clock: clock, delay: delay}
}

// Delay returns the configured delay.
func (d *DebounceScheduler) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending call and arranges for fn to run after the delay.
func (d *DebounceScheduler) Schedule(fn func()) {
	d.mu.Lock()
	d.stopLocked()
	if d.delay == 0 {
		d.mu.Unlock()
		fn()
		return
	}
	gen := d.generation
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that already fired cannot be stopped; the generation check
		// drops it if it was superseded in the meantime.
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.generation++
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// Cancel discards the pending call, if any, without running it.
func (d *DebounceScheduler) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Pending reports whether a call is waiting to fire.
func (d *DebounceScheduler) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *DebounceScheduler) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
