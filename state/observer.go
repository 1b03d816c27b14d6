package state

import "sync"

// Observed identifies a notifier inside observer callbacks.
type Observed interface {
	ID() string
}

// Observer receives notifier lifecycle events.
// All callbacks are best-effort notifications invoked synchronously on
// the mutating goroutine; implementations must not block.
type Observer interface {
	// Created fires after a notifier is constructed with its initial value.
	Created(n Observed, initial any)
	// Changed fires after a notifier adopts a new value and subscribers ran.
	Changed(n Observed, previous, next any)
	// Recovered fires when a notifier adopts a value restored from storage.
	Recovered(n Observed, recovered any)
	// Disposed fires when a notifier releases its subscribers.
	Disposed(n Observed)
}

// ObserverFuncs adapts plain functions into an Observer.
// Nil fields are skipped.
type ObserverFuncs struct {
	OnCreated   func(n Observed, initial any)
	OnChanged   func(n Observed, previous, next any)
	OnRecovered func(n Observed, recovered any)
	OnDisposed  func(n Observed)
}

// Created invokes OnCreated when set.
func (o ObserverFuncs) Created(n Observed, initial any) {
	if o.OnCreated != nil {
		o.OnCreated(n, initial)
	}
}

// Changed invokes OnChanged when set.
func (o ObserverFuncs) Changed(n Observed, previous, next any) {
	if o.OnChanged != nil {
		o.OnChanged(n, previous, next)
	}
}

// Recovered invokes OnRecovered when set.
func (o ObserverFuncs) Recovered(n Observed, recovered any) {
	if o.OnRecovered != nil {
		o.OnRecovered(n, recovered)
	}
}

// Disposed invokes OnDisposed when set.
func (o ObserverFuncs) Disposed(n Observed) {
	if o.OnDisposed != nil {
		o.OnDisposed(n)
	}
}

var (
	defaultObserverMu sync.Mutex
	defaultObserver   Observer
)

// SetDefaultObserver installs the process-wide observer used by notifiers
// constructed without WithObserver. Passing nil clears it.
func SetDefaultObserver(obs Observer) {
	defaultObserverMu.Lock()
	defaultObserver = obs
	defaultObserverMu.Unlock()
}

// DefaultObserver returns the process-wide observer, or nil when unset.
func DefaultObserver() Observer {
	defaultObserverMu.Lock()
	obs := defaultObserver
	defaultObserverMu.Unlock()
	return obs
}
