package state

import "testing"

func TestCoalescer_MergesBursts(t *testing.T) {
	queue := NewQueue()
	runs := 0
	c := NewCoalescer(queue, func() { runs++ })

	n := New(0)
	n.Subscribe(c.Notify)

	n.Set(1)
	n.Set(2)
	n.Set(3)

	if queue.Len() != 1 {
		t.Fatalf("expected burst coalesced into 1 dispatch, got %d", queue.Len())
	}
	queue.Flush()
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	// A change after the flush schedules again.
	n.Set(4)
	queue.Flush()
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}
}

func TestCoalescer_DirectDispatch(t *testing.T) {
	runs := 0
	c := NewCoalescer(nil, func() { runs++ })

	c.Notify()
	c.Notify()
	if runs != 2 {
		t.Fatalf("expected direct dispatch per notify, got %d", runs)
	}
}

func TestCoalescer_NilHandler(t *testing.T) {
	c := NewCoalescer(nil, nil)
	c.Notify()
}
