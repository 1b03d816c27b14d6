package state

// Readable exposes read-only observable state.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func()) func()
	SubscribeWithScheduler(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write observable state.
// Set reports whether the value changed; it fails with ErrDisposed after
// the notifier is disposed.
type Writable[T any] interface {
	Readable[T]
	Set(value T) (bool, error)
	Update(fn func(T) T) (bool, error)
}
