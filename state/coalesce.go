package state

import "sync/atomic"

// Coalescer collapses bursts of change notifications into a single
// scheduled dispatch. Consumers that redraw or recompute on any change
// subscribe a notifier with Notify and bind the handler once.
type Coalescer struct {
	scheduler Scheduler
	fn        func()
	pending   atomic.Bool
}

// NewCoalescer creates a coalescer dispatching fn through scheduler.
// A nil scheduler dispatches directly.
func NewCoalescer(scheduler Scheduler, fn func()) *Coalescer {
	if scheduler == nil {
		scheduler = DirectScheduler
	}
	return &Coalescer{scheduler: scheduler, fn: fn}
}

// Notify requests a dispatch. Requests arriving while one is pending are
// merged into it.
func (c *Coalescer) Notify() {
	if c == nil || c.fn == nil {
		return
	}
	if c.pending.CompareAndSwap(false, true) {
		c.scheduler.Schedule(c.run)
	}
}

func (c *Coalescer) run() {
	c.pending.Store(false)
	c.fn()
}
