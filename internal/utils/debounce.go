package utils

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one call fired after a quiet period.
// At most one call is pending at a time; each Debounce replaces the previous one.
type Debouncer struct {
	mutex      sync.Mutex
	timer      *time.Timer
	pending    func()
	seq        uint64 // Bumped on every schedule/cancel so stale timer callbacks can tell
	lastCalled time.Time
}

// Debounce calls the provided function after the specified duration,
// canceling any previous pending calls
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// Cancel existing timer if present
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.pending = fn

	// Schedule new timer
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		if seq != d.seq || d.pending == nil {
			// Superseded or flushed while the timer was firing
			d.mutex.Unlock()
			return
		}
		call := d.take()
		d.mutex.Unlock()
		call()
	})
}

// Flush runs the pending call immediately on the calling goroutine.
// It returns false if nothing was pending.
func (d *Debouncer) Flush() bool {
	d.mutex.Lock()
	if d.pending == nil {
		d.mutex.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	call := d.take()
	d.mutex.Unlock()
	call()
	return true
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	had := d.pending != nil
	d.pending = nil
	return had
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.pending != nil
}

// LastCalled returns when the debounced function last ran.
func (d *Debouncer) LastCalled() time.Time {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastCalled
}

// take clears the pending state. Caller holds the mutex.
func (d *Debouncer) take() func() {
	call := d.pending
	d.pending = nil
	d.timer = nil
	d.lastCalled = time.Now()
	return call
}
