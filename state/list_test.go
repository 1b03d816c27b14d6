package state

import (
	"reflect"
	"testing"
)

func longerThan3(s string) bool { return len(s) > 3 }

func TestListNotifier_FilterGuard(t *testing.T) {
	l := NewFilteredList([]string{"abcd"}, longerThan3)
	calls := 0
	l.Subscribe(func() { calls++ })

	changed, err := l.Add("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatalf("expected rejected item to leave state unchanged")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []string{"abcd"}) {
		t.Fatalf("expected state [abcd], got %v", got)
	}
	if calls != 0 {
		t.Fatalf("expected no notification, got %d", calls)
	}

	changed, err = l.Add("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected accepted item to change state")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []string{"abcd", "1234"}) {
		t.Fatalf("expected state [abcd 1234], got %v", got)
	}
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
}

func TestListNotifier_EmptyWriteIsNoOp(t *testing.T) {
	l := NewFilteredList([]string{"abcd"}, longerThan3)
	calls := 0
	l.Subscribe(func() { calls++ })

	if changed, _ := l.Set(nil); changed {
		t.Fatalf("expected empty write to be discarded")
	}
	if changed, _ := l.Set([]string{"a", "bb", "ccc"}); changed {
		t.Fatalf("expected fully filtered write to be discarded")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []string{"abcd"}) {
		t.Fatalf("expected state [abcd], got %v", got)
	}
	if calls != 0 {
		t.Fatalf("expected no notifications, got %d", calls)
	}
}

func TestListNotifier_FilteredConstruction(t *testing.T) {
	l := NewFilteredList([]string{"abcd", "1234", "abc", "123"}, longerThan3)
	if got := l.Get(); !reflect.DeepEqual(got, []string{"abcd", "1234"}) {
		t.Fatalf("expected filtered initial state, got %v", got)
	}

	// Unlike writes, construction accepts an empty filtered result.
	empty := NewFilteredList([]string{"a", "b"}, longerThan3)
	if got := empty.Get(); len(got) != 0 {
		t.Fatalf("expected empty initial state, got %v", got)
	}
}

func TestListNotifier_AcceptAllDefault(t *testing.T) {
	l := NewList([]int{1})
	if changed, _ := l.AddAll(2, 3); !changed {
		t.Fatalf("expected add to change state")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestListNotifier_RemoveFirst(t *testing.T) {
	l := NewList([]int{1, 2, 1, 3})

	changed, err := l.RemoveFirst(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected removal to change state")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []int{2, 1, 3}) {
		t.Fatalf("expected [2 1 3], got %v", got)
	}

	if changed, _ := l.RemoveFirst(9); changed {
		t.Fatalf("expected removing absent item to be a no-op")
	}
}

func TestListNotifier_RemoveAll(t *testing.T) {
	l := NewList([]int{1, 2, 1, 3, 2})

	if changed, _ := l.RemoveAll(1, 2); !changed {
		t.Fatalf("expected removal to change state")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("expected [3], got %v", got)
	}
}

func TestListNotifier_RemoveLastItemGuarded(t *testing.T) {
	l := NewList([]int{7})
	calls := 0
	l.Subscribe(func() { calls++ })

	// Removing the final element empties the result, which the write
	// guard discards.
	if changed, _ := l.RemoveFirst(7); changed {
		t.Fatalf("expected removal of last item to be discarded")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("expected state [7], got %v", got)
	}
	if calls != 0 {
		t.Fatalf("expected no notifications, got %d", calls)
	}
}

func TestListNotifier_Update(t *testing.T) {
	l := NewFilteredList([]string{"abcd"}, longerThan3)

	changed, err := l.Update(func(items []string) []string {
		return append(items, "12345", "xy")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected update to change state")
	}
	if got := l.Get(); !reflect.DeepEqual(got, []string{"abcd", "12345"}) {
		t.Fatalf("expected filter applied through update, got %v", got)
	}
}

func TestListNotifier_SetAfterDispose(t *testing.T) {
	l := NewList([]int{1})
	l.Dispose()
	if _, err := l.Set([]int{2}); err == nil {
		t.Fatalf("expected error setting disposed list notifier")
	}
}
