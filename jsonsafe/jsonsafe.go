// Package jsonsafe converts value trees to and from a JSON-safe form.
//
// A JSON-safe value is nil, a bool, a finite number, a string, a sequence
// of JSON-safe values, or a string-keyed map of JSON-safe values. Write
// reduces arbitrary values to that shape, detecting cycles along the way;
// Read normalizes a stored tree back into map[string]any / []any form.
package jsonsafe

import (
	"errors"
	"math"
	"reflect"
)

// Encoder supplies a JSON-safe representation for a custom type.
// Write invokes it for values that are neither atomic nor a sequence or
// map, then traverses the result.
type Encoder interface {
	EncodeJSON() (any, error)
}

// Write reduces v to a JSON-safe tree.
// Values that cannot be reduced fail with an *UnsupportedError; a value
// referencing itself through its descendants fails with an
// *UnsupportedError wrapping a *CycleError.
func Write(v any) (any, error) {
	t := &traversal{}
	out, err := t.write(v)
	if err == nil {
		return out, nil
	}
	var unsup *UnsupportedError
	if errors.As(err, &unsup) {
		return nil, err
	}
	var cyc *CycleError
	if errors.As(err, &cyc) {
		return nil, &UnsupportedError{Value: cyc.Value, Cause: err}
	}
	return nil, err
}

// Read normalizes a stored JSON-safe tree.
// Nested maps are rebuilt as map[string]any with every key coerced to a
// string (non-string keys become the empty string), sequences are rebuilt
// element-wise, and primitives pass through unchanged.
func Read(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Read(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := ""
			kv := iter.Key()
			if kv.Kind() == reflect.Interface && !kv.IsNil() {
				kv = kv.Elem()
			}
			if kv.Kind() == reflect.String {
				key = kv.String()
			}
			out[key] = Read(iter.Value().Interface())
		}
		return out
	}
	return v
}

// traversal tracks the identities currently being traversed so that a
// value appearing as its own descendant is caught instead of recursing
// forever. The seen set lives for one top-level Write call.
type traversal struct {
	seen []uintptr
}

func (t *traversal) write(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &UnsupportedError{Value: v}
		}
		return v, nil
	case reflect.Slice, reflect.Array:
		return t.writeSequence(v, rv)
	case reflect.Map:
		return t.writeMap(v, rv)
	}
	return t.writeCustom(v, rv)
}

// writeSequence always returns a fresh copy so the persisted record
// never aliases caller-owned backing arrays.
func (t *traversal) writeSequence(v any, rv reflect.Value) (any, error) {
	n := rv.Len()
	if n == 0 {
		// Empty sequences short-circuit without touching the seen set.
		return []any{}, nil
	}
	pushed, err := t.push(v, rv)
	if err != nil {
		return nil, err
	}
	if pushed {
		defer t.pop()
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		w, werr := t.write(rv.Index(i).Interface())
		if werr != nil {
			return nil, werr
		}
		out[i] = w
	}
	return out, nil
}

func (t *traversal) writeMap(v any, rv reflect.Value) (any, error) {
	if rv.Len() == 0 {
		return map[string]any{}, nil
	}
	pushed, err := t.push(v, rv)
	if err != nil {
		return nil, err
	}
	if pushed {
		defer t.pop()
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		kv := iter.Key()
		if kv.Kind() == reflect.Interface && !kv.IsNil() {
			kv = kv.Elem()
		}
		if kv.Kind() != reflect.String {
			return nil, &UnsupportedError{Value: v}
		}
		w, werr := t.write(iter.Value().Interface())
		if werr != nil {
			return nil, werr
		}
		out[kv.String()] = w
	}
	return out, nil
}

func (t *traversal) writeCustom(v any, rv reflect.Value) (any, error) {
	enc, ok := v.(Encoder)
	if !ok {
		return nil, &UnsupportedError{Value: v}
	}
	pushed, err := t.push(v, rv)
	if err != nil {
		// The value is already being traversed: it appears as its own
		// descendant through its encoded representation.
		return nil, err
	}
	if pushed {
		defer t.pop()
	}
	repr, err := enc.EncodeJSON()
	if err != nil {
		return nil, wrapCause(v, err)
	}
	out, err := t.write(repr)
	if err != nil {
		return nil, wrapCause(v, err)
	}
	return out, nil
}

// push records the identity of a reference value on the seen set.
// It reports whether an entry was pushed; value types cannot reference
// themselves and are not tracked. A value already on the set fails with
// a *CycleError.
func (t *traversal) push(v any, rv reflect.Value) (bool, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		p := rv.Pointer()
		for _, seen := range t.seen {
			if seen == p {
				return false, &CycleError{Value: v}
			}
		}
		t.seen = append(t.seen, p)
		return true, nil
	}
	return false, nil
}

func (t *traversal) pop() {
	t.seen = t.seen[:len(t.seen)-1]
}

// wrapCause attaches v to a nested failure unless the failure is already
// an UnsupportedError; those pass through untouched.
func wrapCause(v any, err error) error {
	var unsup *UnsupportedError
	if errors.As(err, &unsup) {
		return err
	}
	return &UnsupportedError{Value: v, Cause: err}
}
