// Package debounce coalesces bursts of events into a single call.
package debounce

import (
	"sync"
	"time"
)

// DefaultSearchDuration is the window applied to search-text changes.
const DefaultSearchDuration = 300 * time.Millisecond

// Debouncer runs a function once events stop arriving for the configured duration.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// New creates a debouncer with the specified duration.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Debounce executes fn after the debounce duration has elapsed
// without any new calls. Rapid successive calls reset the timer.
// A zero duration still runs fn on the timer goroutine.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Immediate executes fn now and cancels any pending call.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Latest debounces a stream of values; only the last value in a burst is
// delivered to the handler. Each Set, Flush, or Cancel starts a new
// generation, and a timer from an older generation delivers nothing.
type Latest[T any] struct {
	debouncer *Debouncer
	handler   func(T)

	mu      sync.Mutex
	pending T
	gen     uint64

	// deliver is held from the generation check through the handler call.
	deliver sync.Mutex
}

// NewLatest creates a value debouncer delivering to handler.
func NewLatest[T any](duration time.Duration, handler func(T)) *Latest[T] {
	return &Latest[T]{
		debouncer: New(duration),
		handler:   handler,
	}
}

// Set records v and restarts the window.
func (l *Latest[T]) Set(v T) {
	gen := l.advance(v)
	l.debouncer.Debounce(func() { l.fire(gen) })
}

// Flush delivers v right away, dropping anything pending.
func (l *Latest[T]) Flush(v T) {
	l.debouncer.Cancel()
	l.fire(l.advance(v))
}

// Cancel drops the pending value without delivering it. A timer that fired
// before Cancel delivers nothing once Cancel returns.
func (l *Latest[T]) Cancel() {
	l.debouncer.Cancel()

	l.mu.Lock()
	l.gen++
	l.mu.Unlock()

	// Wait out a delivery that passed its check before the bump.
	l.deliver.Lock()
	l.deliver.Unlock() //nolint:staticcheck // empty critical section is the wait
}

func (l *Latest[T]) advance(v T) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.pending = v
	return l.gen
}

func (l *Latest[T]) fire(gen uint64) {
	l.deliver.Lock()
	defer l.deliver.Unlock()

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	v := l.pending
	l.mu.Unlock()

	l.handler(v)
}
