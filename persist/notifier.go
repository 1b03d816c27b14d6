// Package persist layers durable storage onto state notifiers.
//
// A persist.Notifier recovers its value from storage at construction,
// before any subscriber can attach, and writes every accepted mutation
// back through its Codec. Storage writes run off the mutating goroutine;
// Flush awaits them and surfaces the first failure.
package persist

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/odvcencio/furry-state/jsonsafe"
	"github.com/odvcencio/furry-state/state"
	"github.com/odvcencio/furry-state/storage"
)

// ErrNoStorage is returned when persistence is attempted with neither a
// configured backend nor a process default.
var ErrNoStorage = errors.New("persist: no storage configured")

// ErrNoCodec is returned when a persistent notifier is constructed
// without a codec.
var ErrNoCodec = errors.New("persist: no codec configured")

// Config configures a persistent notifier.
type Config[T any] struct {
	// Storage is the backend for this notifier. When nil, the process
	// default installed with storage.SetDefault is used.
	Storage storage.Storage

	// Codec converts state across the persistence boundary. Required.
	Codec Codec[T]

	// Prefix is the leading part of the storage token. It defaults to
	// the name of T.
	Prefix string

	// ID disambiguates multiple instances of the same state type sharing
	// one backend. Defaults to empty.
	ID string

	// OnError receives recovery and persistence failures. Defaults to a
	// no-op.
	OnError func(error)

	// Observer receives lifecycle events for the underlying notifier.
	// When nil the process default observer applies.
	Observer state.Observer

	// Scheduler dispatches storage writes after a mutation. Defaults to
	// state.AsyncScheduler; tests use state.DirectScheduler for
	// deterministic persistence.
	Scheduler state.Scheduler
}

// Notifier is a state notifier whose value survives process restarts.
type Notifier[T any] struct {
	*state.Notifier[T]

	store     storage.Storage
	codec     Codec[T]
	token     string
	onError   func(error)
	scheduler state.Scheduler

	wg       sync.WaitGroup
	mu       sync.Mutex
	writeErr error
}

// New creates a persistent notifier and synchronously recovers its state.
//
// When a record exists under the notifier's token it is decoded and
// adopted in place of initial; recovery failures are reported to OnError
// and the initial value is kept. The established value is then written
// back so storage and memory start consistent; that write's failure is
// reported but does not fail construction. A missing storage backend
// fails New with ErrNoStorage, and a missing codec with ErrNoCodec.
func New[T any](initial T, cfg Config[T]) (*Notifier[T], error) {
	store := cfg.Storage
	if store == nil {
		store = storage.Default()
	}
	if store == nil {
		return nil, ErrNoStorage
	}
	if cfg.Codec == nil {
		return nil, ErrNoCodec
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = typeName[T]()
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = state.AsyncScheduler{}
	}
	var opts []state.Option
	if cfg.Observer != nil {
		opts = append(opts, state.WithObserver(cfg.Observer))
	}
	n := &Notifier[T]{
		Notifier:  state.New(initial, opts...),
		store:     store,
		codec:     cfg.Codec,
		token:     prefix + cfg.ID,
		onError:   onError,
		scheduler: scheduler,
	}
	n.recover(context.Background())
	return n, nil
}

// Token returns the storage key this notifier's state lives under.
// Two notifiers sharing a token share persisted state.
func (n *Notifier[T]) Token() string {
	if n == nil {
		return ""
	}
	return n.token
}

// Set replaces the value, notifies subscribers, then persists the new
// value. The in-memory mutation and notifications happen first and are
// never rolled back: encoding failures are reported and returned after
// the value is already adopted, and storage write failures surface
// through Flush.
func (n *Notifier[T]) Set(value T) (bool, error) {
	if n == nil {
		return false, nil
	}
	changed, err := n.Notifier.Set(value)
	if err != nil || !changed {
		return changed, err
	}
	if err := n.persist(value); err != nil {
		return true, err
	}
	return true, nil
}

// Update replaces the value using fn and persists the result.
// fn runs outside the notifier lock; Update is not atomic across goroutines.
func (n *Notifier[T]) Update(fn func(T) T) (bool, error) {
	if n == nil || fn == nil {
		return false, nil
	}
	return n.Set(fn(n.Get()))
}

// Flush waits for pending storage writes and returns the first failure
// recorded since the previous Flush.
func (n *Notifier[T]) Flush() error {
	if n == nil {
		return nil
	}
	n.wg.Wait()
	n.mu.Lock()
	err := n.writeErr
	n.writeErr = nil
	n.mu.Unlock()
	return err
}

// Clear deletes the persisted record for this notifier's token.
// The in-memory value is untouched; the next construction against the
// same token recovers the caller-supplied initial value instead.
func (n *Notifier[T]) Clear(ctx context.Context) error {
	if n == nil {
		return nil
	}
	if err := n.store.Delete(ctx, n.token); err != nil {
		n.onError(err)
		return err
	}
	return nil
}

// Dispose waits for pending storage writes, then releases the notifier.
func (n *Notifier[T]) Dispose() error {
	if n == nil {
		return nil
	}
	err := n.Flush()
	n.Notifier.Dispose()
	return err
}

// recover adopts stored state and writes the established value back.
func (n *Notifier[T]) recover(ctx context.Context) {
	raw, ok, err := n.store.Read(ctx, n.token)
	switch {
	case err != nil:
		n.onError(err)
	case ok:
		decoded, derr := n.codec.DecodeState(jsonsafe.Read(raw))
		if derr != nil {
			n.onError(derr)
		} else if rerr := n.Notifier.Restore(decoded); rerr != nil {
			n.onError(rerr)
		}
	}
	if perr := n.persistNow(ctx, n.Get()); perr != nil {
		n.onError(perr)
	}
}

// persist encodes value and hands the storage write to the scheduler.
// Encoding failures are synchronous; storage failures are recorded for
// Flush. A Codec that declines to encode (ok=false) skips the write.
func (n *Notifier[T]) persist(value T) error {
	repr, ok, err := n.codec.EncodeState(value)
	if err != nil {
		n.onError(err)
		return err
	}
	if !ok {
		return nil
	}
	safe, err := jsonsafe.Write(repr)
	if err != nil {
		n.onError(err)
		return err
	}
	n.wg.Add(1)
	n.scheduler.Schedule(func() {
		defer n.wg.Done()
		if werr := n.store.Write(context.Background(), n.token, safe); werr != nil {
			n.onError(werr)
			n.mu.Lock()
			if n.writeErr == nil {
				n.writeErr = werr
			}
			n.mu.Unlock()
		}
	})
	return nil
}

// persistNow encodes value and writes it synchronously.
func (n *Notifier[T]) persistNow(ctx context.Context, value T) error {
	repr, ok, err := n.codec.EncodeState(value)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	safe, err := jsonsafe.Write(repr)
	if err != nil {
		return err
	}
	return n.store.Write(ctx, n.token, safe)
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
