// Package state provides observable value containers with lifecycle hooks.
package state

import (
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"
)

// ErrDisposed is returned when a disposed notifier is mutated.
var ErrDisposed = errors.New("state: notifier disposed")

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

type subscriber struct {
	fn        func()
	scheduler Scheduler
}

// Notifier holds a value and notifies subscribers on change.
// Reentrant Set calls from within a subscriber callback are permitted;
// they recurse without a guard, so callbacks must terminate the recursion
// themselves.
type Notifier[T any] struct {
	mu       sync.Mutex
	id       string
	value    T
	subs     map[int]subscriber
	next     int
	equal    EqualFunc[T]
	observer Observer
	disposed bool
}

// Option configures a notifier at construction.
type Option func(*options)

type options struct {
	observer    Observer
	hasObserver bool
}

// WithObserver attaches a lifecycle observer to the notifier.
// It replaces the process default observer for this instance.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
		o.hasObserver = true
	}
}

// New creates a notifier holding an initial value.
func New[T any](initial T, opts ...Option) *Notifier[T] {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	obs := o.observer
	if !o.hasObserver {
		obs = DefaultObserver()
	}
	n := &Notifier[T]{
		id:       ulid.Make().String(),
		value:    initial,
		observer: obs,
	}
	if n.observer != nil {
		n.observer.Created(n, initial)
	}
	return n
}

// ID returns the notifier's unique identity.
func (n *Notifier[T]) ID() string {
	if n == nil {
		return ""
	}
	return n.id
}

// Get returns the current value.
func (n *Notifier[T]) Get() T {
	if n == nil {
		var zero T
		return zero
	}
	n.mu.Lock()
	value := n.value
	n.mu.Unlock()
	return value
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (n *Notifier[T]) SetEqualFunc(fn EqualFunc[T]) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.equal = fn
	n.mu.Unlock()
}

// Set replaces the value and notifies subscribers.
// It reports whether the value changed; a configured EqualFunc suppresses
// redundant updates. Subscribers observe the new value through Get by the
// time their callback runs. Set fails with ErrDisposed after Dispose.
func (n *Notifier[T]) Set(value T) (bool, error) {
	if n == nil {
		return false, nil
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return false, ErrDisposed
	}
	if n.equal != nil && n.equal(n.value, value) {
		n.mu.Unlock()
		return false, nil
	}
	previous := n.value
	n.value = value
	subs := n.copySubscribersLocked()
	obs := n.observer
	n.mu.Unlock()

	n.notify(subs)
	if obs != nil {
		obs.Changed(n, previous, value)
	}
	return true, nil
}

// Update replaces the value using fn.
// fn runs outside the notifier lock; Update is not atomic across goroutines.
func (n *Notifier[T]) Update(fn func(T) T) (bool, error) {
	if n == nil || fn == nil {
		return false, nil
	}
	current := n.Get()
	return n.Set(fn(current))
}

// Restore replaces the value without notifying subscribers.
// It is used to adopt state recovered from a persistence layer before
// subscribers attach, and reports the recovery through the observer.
func (n *Notifier[T]) Restore(value T) error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return ErrDisposed
	}
	n.value = value
	obs := n.observer
	n.mu.Unlock()

	if obs != nil {
		obs.Recovered(n, value)
	}
	return nil
}

// Subscribe registers a listener for change notifications.
// The returned function removes the listener; calling it more than once
// is a no-op.
func (n *Notifier[T]) Subscribe(fn func()) func() {
	return n.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (n *Notifier[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if n == nil || fn == nil {
		return func() {}
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return func() {}
	}
	if n.subs == nil {
		n.subs = make(map[int]subscriber)
	}
	id := n.next
	n.next++
	n.subs[id] = subscriber{fn: fn, scheduler: scheduler}
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Dispose releases the subscriber set.
// Set and Restore fail with ErrDisposed afterward. Dispose is idempotent;
// the observer is told only once.
func (n *Notifier[T]) Dispose() {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.disposed {
		n.mu.Unlock()
		return
	}
	n.disposed = true
	n.subs = nil
	obs := n.observer
	n.mu.Unlock()

	if obs != nil {
		obs.Disposed(n)
	}
}

// Disposed reports whether Dispose has been called.
func (n *Notifier[T]) Disposed() bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	disposed := n.disposed
	n.mu.Unlock()
	return disposed
}

func (n *Notifier[T]) copySubscribersLocked() []subscriber {
	if len(n.subs) == 0 {
		return nil
	}
	subs := make([]subscriber, 0, len(n.subs))
	for _, sub := range n.subs {
		subs = append(subs, sub)
	}
	return subs
}

func (n *Notifier[T]) notify(subs []subscriber) {
	for _, sub := range subs {
		if sub.fn == nil {
			continue
		}
		if sub.scheduler == nil {
			sub.fn()
			continue
		}
		sub.scheduler.Schedule(sub.fn)
	}
}
