package errors

import "errors"

var (
	New = errors.New
	Is  = errors.Is
)

type baseErr struct {
	base  error
	inner error
}

func (e *baseErr) Unwrap() error {
	return e.inner
}

// Is reports the base as part of the chain so callers can match on the
// sentinel while Unwrap still reaches the underlying cause.
func (e *baseErr) Is(target error) bool {
	return target == e.base
}

func (e *baseErr) Error() string {
	if e.inner == nil {
		return e.base.Error()
	}
	return e.base.Error() + ": " + e.inner.Error()
}

// Single wraps cause under the sentinel base.
func Single(base, cause error) error {
	return &baseErr{
		base:  base,
		inner: cause,
	}
}
