package utils

import (
	"sync"
	"time"
)

// Debouncer delays fn until Call has been quiet for wait. Only the argument of
// the latest Call is delivered and a single timer is kept per instance.
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu       sync.Mutex
	timer    *time.Timer
	arg      T
	pending  bool
	deadline time.Time
	stopped  bool
}

func NewDebouncer[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Call (re)schedules fn with arg, cancelling the previously scheduled call.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.arg = arg
	d.pending = true
	d.deadline = time.Now().Add(d.wait)
	if d.timer == nil {
		d.timer = time.AfterFunc(d.wait, d.fire)
		return
	}
	d.timer.Stop()
	d.timer.Reset(d.wait)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	// A Call that raced with the timer moved the deadline and re-armed it.
	if !d.pending || d.stopped || time.Now().Before(d.deadline) {
		d.mu.Unlock()
		return
	}
	arg := d.arg
	d.pending = false
	d.mu.Unlock()
	d.fn(arg)
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	arg := d.arg
	d.pending = false
	d.mu.Unlock()
	d.fn(arg)
	return true
}

// Cancel drops a pending call. Unlike Stop, later Calls are scheduled as usual.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return false
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop drops any pending call; later Calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
