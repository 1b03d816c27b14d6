package persist

import (
	"encoding/json"
	"errors"
)

// ErrNoDecode is reported when recovery finds a stored record but the
// codec has no decode function; the in-memory value is kept.
var ErrNoDecode = errors.New("persist: codec has no decode function")

// Codec converts a notifier's state across the persistence boundary.
// EncodeState returns the JSON-safe representation of a value; ok=false
// means "do not persist this value" and skips the storage write entirely.
// DecodeState rebuilds a value from a stored representation.
type Codec[T any] interface {
	EncodeState(value T) (repr any, ok bool, err error)
	DecodeState(repr any) (T, error)
}

// CodecFuncs adapts plain functions into a Codec.
// A nil Encode persists nothing; a nil Decode fails recovery with
// ErrNoDecode so the in-memory value is kept.
type CodecFuncs[T any] struct {
	Encode func(value T) (any, bool, error)
	Decode func(repr any) (T, error)
}

// EncodeState invokes Encode when set.
func (c CodecFuncs[T]) EncodeState(value T) (any, bool, error) {
	if c.Encode == nil {
		return nil, false, nil
	}
	return c.Encode(value)
}

// DecodeState invokes Decode when set.
func (c CodecFuncs[T]) DecodeState(repr any) (T, error) {
	if c.Decode == nil {
		var zero T
		return zero, ErrNoDecode
	}
	return c.Decode(repr)
}

// JSON builds a Codec that round-trips T through encoding/json.
// It suits states whose fields are all JSON-serializable; types needing
// custom handling implement Codec directly.
func JSON[T any]() Codec[T] {
	return CodecFuncs[T]{
		Encode: func(value T) (any, bool, error) {
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, false, err
			}
			var repr any
			if err := json.Unmarshal(raw, &repr); err != nil {
				return nil, false, err
			}
			return repr, true, nil
		},
		Decode: func(repr any) (T, error) {
			var value T
			raw, err := json.Marshal(repr)
			if err != nil {
				return value, err
			}
			if err := json.Unmarshal(raw, &value); err != nil {
				return value, err
			}
			return value, nil
		},
	}
}
