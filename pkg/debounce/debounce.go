// Package debounce coalesces bursts of calls into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer relies on.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules fn after d. time.AfterFunc is the default.
type TimerFunc func(d time.Duration, fn func()) Timer

// Option customises a Debouncer.
type Option func(*Debouncer)

// WithTimerFunc swaps the scheduler, mainly for tests.
func WithTimerFunc(fn TimerFunc) Option {
	return func(d *Debouncer) {
		if fn != nil {
			d.newTimer = fn
		}
	}
}

// Debouncer runs fn once the triggers have been quiet for the configured
// delay. Every Trigger restarts the wait.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	fn       func()
	newTimer TimerFunc
	timer    Timer
	seq      uint64
	stopped  bool
}

// New returns a debouncer calling fn after delay of inactivity.
func New(delay time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		delay: delay,
		fn:    fn,
		newTimer: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()
	id := d.seq
	d.timer = d.newTimer(d.delay, func() { d.fire(id) })
}

// Flush drops any pending call and runs fn immediately on the caller's
// goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.mu.Unlock()

	d.run()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and ignores every later Trigger or Flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// a timer that already fired but has not taken the lock yet sees a stale id
	d.seq++
}

func (d *Debouncer) fire(id uint64) {
	d.mu.Lock()
	if d.stopped || id != d.seq || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.run()
}

func (d *Debouncer) run() {
	if d.fn != nil {
		d.fn()
	}
}
