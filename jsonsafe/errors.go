package jsonsafe

import "fmt"

// UnsupportedError reports a value that cannot be reduced to a JSON-safe tree.
// It carries the offending value and, when the failure came from a nested
// conversion, the underlying cause.
type UnsupportedError struct {
	Value any
	Cause error
}

func (e *UnsupportedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("jsonsafe: unsupported value %T: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("jsonsafe: unsupported value %T", e.Value)
}

func (e *UnsupportedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// CycleError reports a value that references itself through its own
// descendants. It never reaches callers of Write directly; Write rewraps
// it in an UnsupportedError.
type CycleError struct {
	Value any
}

func (e *CycleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonsafe: cyclic reference through %T", e.Value)
}
