// Package search implements the debounced collaborator search: raw input is
// settled by a trailing-edge Debouncer, and UserSearch turns each settled
// query into a cached, paginated user lookup.
package search

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production, a fake clock
// in tests.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer publishes the latest value once it has been left alone for the
// configured delay. Every Set restarts the countdown.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	onFire  func(T)
	timer   Timer
	seq     uint64
	pending T
	waiting bool
	value   T
}

func NewDebouncer[T any](delay time.Duration, onFire func(T), after AfterFunc) *Debouncer[T] {
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer[T]{delay: delay, after: after, onFire: onFire}
}

// Set records v as the newest raw value and restarts the delay.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stop()
	d.seq++
	seq := d.seq
	d.pending = v
	d.waiting = true
	d.timer = d.after(d.delay, func() { d.fire(seq) })
}

// Value is the last published value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Flush publishes a pending value immediately. It reports whether there was
// one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.waiting {
		d.mu.Unlock()
		return false
	}
	d.stop()
	d.seq++
	v := d.publish()
	d.mu.Unlock()

	d.onFire(v)
	return true
}

// Cancel drops a pending value without publishing it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stop()
	d.seq++
	d.waiting = false
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.waiting {
		d.mu.Unlock()
		return
	}
	v := d.publish()
	d.mu.Unlock()

	d.onFire(v)
}

// publish moves pending to value. Caller holds d.mu.
func (d *Debouncer[T]) publish() T {
	d.value = d.pending
	d.waiting = false
	d.timer = nil
	return d.value
}

func (d *Debouncer[T]) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
