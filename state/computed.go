package state

// Computed derives its value from other notifiers.
// Dependency changes recompute the value through the Subscriptions
// bundle, optionally on a scheduler; Dispose releases the dependencies
// and the inner notifier together.
type Computed[T any] struct {
	notifier *Notifier[T]
	compute  func() T
	subs     *Subscriptions
}

// NewComputed creates a derived value from dependencies.
func NewComputed[T any](compute func() T, deps ...Subscribable) *Computed[T] {
	return NewComputedWithScheduler(nil, compute, deps...)
}

// NewComputedWithScheduler creates a derived value and schedules
// recomputes. A nil scheduler recomputes synchronously.
func NewComputedWithScheduler[T any](scheduler Scheduler, compute func() T, deps ...Subscribable) *Computed[T] {
	if compute == nil {
		compute = func() T {
			var zero T
			return zero
		}
	}
	c := &Computed[T]{
		notifier: New(compute()),
		compute:  compute,
		subs:     NewSubscriptions(scheduler),
	}
	for _, dep := range deps {
		c.subs.Observe(dep, c.recompute)
	}
	return c
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (c *Computed[T]) SetEqualFunc(fn EqualFunc[T]) {
	if c == nil {
		return
	}
	c.notifier.SetEqualFunc(fn)
}

// Get returns the current computed value.
func (c *Computed[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	return c.notifier.Get()
}

// Subscribe registers a listener for change notifications.
func (c *Computed[T]) Subscribe(fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.notifier.Subscribe(fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (c *Computed[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.notifier.SubscribeWithScheduler(scheduler, fn)
}

// Stop unsubscribes from dependency updates.
// The last computed value stays readable and subscribable.
func (c *Computed[T]) Stop() {
	if c == nil {
		return
	}
	c.subs.Clear()
}

// Dispose stops dependency tracking and disposes the inner notifier,
// releasing its subscribers and firing the Disposed observer event.
func (c *Computed[T]) Dispose() {
	if c == nil {
		return
	}
	c.subs.Clear()
	c.notifier.Dispose()
}

func (c *Computed[T]) recompute() {
	if c == nil {
		return
	}
	if _, err := c.notifier.Set(c.compute()); err != nil {
		// The inner notifier was disposed under a scheduled recompute;
		// dependency updates have nowhere to land anymore.
		c.subs.Clear()
	}
}
