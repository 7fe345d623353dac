package permissions

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/charlesng35/permstate/pkg/metrics"
)

// deferredNotifier runs at most one pending callback after a fixed delay.
// Scheduling again replaces the pending callback.
type deferredNotifier struct {
	clock clockwork.Clock
	delay time.Duration

	mu         sync.Mutex
	timer      clockwork.Timer
	pending    func()
	generation uint64
	closed     bool
}

func newDeferredNotifier(clock clockwork.Clock, delay time.Duration) *deferredNotifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &deferredNotifier{clock: clock, delay: delay}
}

// Schedule arranges for fn to run after the configured delay. A non-positive
// delay runs fn immediately on the calling goroutine.
func (n *deferredNotifier) Schedule(fn func()) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.stopLocked()

	if n.delay <= 0 {
		n.mu.Unlock()
		fn()
		return
	}

	n.generation++
	generation := n.generation
	n.pending = fn
	n.timer = n.clock.AfterFunc(n.delay, func() {
		n.mu.Lock()
		if n.closed || generation != n.generation {
			n.mu.Unlock()
			return
		}
		n.timer = nil
		n.pending = nil
		n.mu.Unlock()

		metrics.DeferredNotifications.WithLabelValues("delivered").Inc()
		fn()
	})
	n.mu.Unlock()

	metrics.DeferredNotifications.WithLabelValues("scheduled").Inc()
}

// Pending reports whether a callback is waiting to run.
func (n *deferredNotifier) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer != nil
}

// Flush runs the pending callback now instead of waiting for the timer.
func (n *deferredNotifier) Flush() bool {
	n.mu.Lock()
	fn := n.pending
	if fn == nil || n.closed {
		n.mu.Unlock()
		return false
	}
	n.timer.Stop()
	n.timer = nil
	n.pending = nil
	n.generation++
	n.mu.Unlock()

	metrics.DeferredNotifications.WithLabelValues("delivered").Inc()
	fn()
	return true
}

// Cancel drops the pending callback, if any.
func (n *deferredNotifier) Cancel() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked()
}

// Close cancels the pending callback and rejects later schedules.
func (n *deferredNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
	n.closed = true
}

func (n *deferredNotifier) stopLocked() bool {
	if n.timer == nil {
		return false
	}
	n.timer.Stop()
	n.timer = nil
	n.pending = nil
	// Invalidates a callback that already fired but has not taken the lock yet.
	n.generation++
	metrics.DeferredNotifications.WithLabelValues("cancelled").Inc()
	return true
}
