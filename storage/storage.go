// Package storage defines the key-value capability persistent notifiers
// write through, plus in-memory and SQLite-backed drivers.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a closed storage is used.
var ErrClosed = errors.New("storage: closed")

// Storage is a key to JSON-safe-value capability.
// Implementations must serialize interleaved Write, Delete and Clear
// calls against the same backend; callers hold no lock of their own.
type Storage interface {
	// Read returns the value stored under key and whether one exists.
	Read(ctx context.Context, key string) (any, bool, error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key string, value any) error
	// Delete removes the value stored under key, if any.
	Delete(ctx context.Context, key string) error
	// Clear removes every key held by this backend instance.
	Clear(ctx context.Context) error
	// Close releases resources; the backend is unusable afterward.
	Close(ctx context.Context) error
}

var (
	defaultMu      sync.Mutex
	defaultStorage Storage
)

// SetDefault installs the process-wide storage used by persistent
// notifiers constructed without an explicit backend. It reports whether
// the default was installed; a default already in place is kept.
func SetDefault(s Storage) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultStorage != nil {
		return false
	}
	defaultStorage = s
	return true
}

// Default returns the process-wide storage, or nil when unset.
func Default() Storage {
	defaultMu.Lock()
	s := defaultStorage
	defaultMu.Unlock()
	return s
}

// ResetDefault removes the process-wide storage so a new one can be
// installed. Intended for teardown and tests.
func ResetDefault() {
	defaultMu.Lock()
	defaultStorage = nil
	defaultMu.Unlock()
}
