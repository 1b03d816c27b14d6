package state

// ListNotifier holds a slice and filters every write through a predicate.
// A write whose filtered result is empty is silently discarded so that a
// bad assignment cannot clobber existing non-empty state.
type ListNotifier[T comparable] struct {
	*Notifier[[]T]
	filter func(T) bool
}

// NewList creates a list notifier that accepts every item.
func NewList[T comparable](items []T, opts ...Option) *ListNotifier[T] {
	return &ListNotifier[T]{
		Notifier: New(cloneItems(items), opts...),
	}
}

// NewFilteredList creates a list notifier whose writes keep only items
// accepted by filter. The initial items are filtered directly, without
// the discard-on-empty guard applied to later writes; an empty initial
// result is acceptable. A nil filter accepts everything.
func NewFilteredList[T comparable](items []T, filter func(T) bool, opts ...Option) *ListNotifier[T] {
	return &ListNotifier[T]{
		Notifier: New(filterItems(items, filter), opts...),
		filter:   filter,
	}
}

// Set filters items and replaces the list with the survivors.
// If nothing survives the filter, Set is a no-op: state is kept and no
// subscriber is notified.
func (l *ListNotifier[T]) Set(items []T) (bool, error) {
	if l == nil {
		return false, nil
	}
	kept := filterItems(items, l.filter)
	if len(kept) == 0 {
		if l.Disposed() {
			return false, ErrDisposed
		}
		return false, nil
	}
	return l.Notifier.Set(kept)
}

// Update replaces the list using fn, through the filter guard.
// fn runs outside the notifier lock; Update is not atomic across goroutines.
func (l *ListNotifier[T]) Update(fn func([]T) []T) (bool, error) {
	if l == nil || fn == nil {
		return false, nil
	}
	return l.Set(fn(l.Get()))
}

// Add appends item to the list through the filter guard.
// Add is not atomic across goroutines.
func (l *ListNotifier[T]) Add(item T) (bool, error) {
	if l == nil {
		return false, nil
	}
	current := l.Get()
	next := make([]T, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, item)
	return l.Set(next)
}

// AddAll appends items to the list through the filter guard.
func (l *ListNotifier[T]) AddAll(items ...T) (bool, error) {
	if l == nil {
		return false, nil
	}
	current := l.Get()
	next := make([]T, 0, len(current)+len(items))
	next = append(next, current...)
	next = append(next, items...)
	return l.Set(next)
}

// RemoveFirst removes the first occurrence of item.
// Removing the last surviving item trips the empty-result guard, so the
// final element of a list cannot be removed through RemoveFirst.
func (l *ListNotifier[T]) RemoveFirst(item T) (bool, error) {
	if l == nil {
		return false, nil
	}
	current := l.Get()
	next := make([]T, 0, len(current))
	removed := false
	for _, v := range current {
		if !removed && v == item {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed {
		return false, nil
	}
	return l.Set(next)
}

// RemoveAll removes every occurrence of each given item.
func (l *ListNotifier[T]) RemoveAll(items ...T) (bool, error) {
	if l == nil || len(items) == 0 {
		return false, nil
	}
	drop := make(map[T]struct{}, len(items))
	for _, item := range items {
		drop[item] = struct{}{}
	}
	current := l.Get()
	next := make([]T, 0, len(current))
	for _, v := range current {
		if _, ok := drop[v]; ok {
			continue
		}
		next = append(next, v)
	}
	if len(next) == len(current) {
		return false, nil
	}
	return l.Set(next)
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func filterItems[T any](items []T, filter func(T) bool) []T {
	if filter == nil {
		return cloneItems(items)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if filter(item) {
			out = append(out, item)
		}
	}
	return out
}
