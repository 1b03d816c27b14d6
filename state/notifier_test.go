package state

import (
	"errors"
	"testing"
)

func TestNotifier_SetAndSubscribe(t *testing.T) {
	n := New(1)
	calls := 0

	unsub := n.Subscribe(func() {
		calls++
	})

	if calls != 0 {
		t.Fatalf("expected no calls before set, got %d", calls)
	}
	changed, err := n.Set(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected set to report change")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after set, got %d", calls)
	}

	unsub()
	unsub()
	if _, err := n.Set(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
}

func TestNotifier_ReadAfterNotify(t *testing.T) {
	n := New("old")
	var seen string

	n.Subscribe(func() {
		seen = n.Get()
	})

	if _, err := n.Set("new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "new" {
		t.Fatalf("expected callback to observe new value, got %q", seen)
	}
}

func TestNotifier_SetEqualFunc(t *testing.T) {
	n := New(5)
	n.SetEqualFunc(EqualComparable[int])

	if changed, _ := n.Set(5); changed {
		t.Fatalf("expected set of equal value to report no change")
	}
	if changed, _ := n.Set(6); !changed {
		t.Fatalf("expected set of new value to report change")
	}
}

func TestNotifier_Update(t *testing.T) {
	n := New(1)

	changed, err := n.Update(func(v int) int { return v + 1 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected update to report change")
	}
	if n.Get() != 2 {
		t.Fatalf("expected updated value 2, got %d", n.Get())
	}
	if changed, _ := n.Update(nil); changed {
		t.Fatalf("expected nil update to report no change")
	}
}

func TestNotifier_Dispose(t *testing.T) {
	n := New(1)
	calls := 0
	n.Subscribe(func() { calls++ })

	n.Dispose()
	if !n.Disposed() {
		t.Fatalf("expected notifier to report disposed")
	}

	if _, err := n.Set(2); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}
	if err := n.Restore(3); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed from restore, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no notifications from disposed notifier, got %d", calls)
	}
	if n.Get() != 1 {
		t.Fatalf("expected value retained after dispose, got %d", n.Get())
	}

	// Idempotent.
	n.Dispose()
}

func TestNotifier_SubscribeAfterDispose(t *testing.T) {
	n := New(1)
	n.Dispose()

	unsub := n.Subscribe(func() {
		t.Fatalf("callback must never run on a disposed notifier")
	})
	unsub()
}

func TestNotifier_RestoreSkipsSubscribers(t *testing.T) {
	n := New(1)
	calls := 0
	n.Subscribe(func() { calls++ })

	if err := n.Restore(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected restore to skip subscribers, got %d calls", calls)
	}
	if n.Get() != 7 {
		t.Fatalf("expected restored value 7, got %d", n.Get())
	}
}

func TestNotifier_ReentrantSet(t *testing.T) {
	n := New(0)
	calls := 0

	n.Subscribe(func() {
		calls++
		if n.Get() < 3 {
			n.Set(n.Get() + 1)
		}
	})

	if _, err := n.Set(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Get() != 3 {
		t.Fatalf("expected reentrant sets to settle at 3, got %d", n.Get())
	}
	if calls != 3 {
		t.Fatalf("expected 3 callback invocations, got %d", calls)
	}
}

func TestNotifier_SubscribeWithScheduler(t *testing.T) {
	n := New(1)
	queue := NewQueue()
	calls := 0

	n.SubscribeWithScheduler(queue, func() {
		calls++
	})

	if changed, _ := n.Set(2); !changed {
		t.Fatalf("expected set to report change")
	}
	if calls != 0 {
		t.Fatalf("expected callback to be queued, got %d", calls)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 callback flushed, got %d", flushed)
	}
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}

func TestNotifier_ID(t *testing.T) {
	a := New(1)
	b := New(1)
	if a.ID() == "" {
		t.Fatalf("expected non-empty id")
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, both %q", a.ID())
	}
}
