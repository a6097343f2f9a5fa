package effects

import "fmt"

// ErrEmptyResult is reported by results that were never given a value or an
// error: the zero Result and Err(nil). It keeps the "neither side" state
// unobservable.
var ErrEmptyResult = fmt.Errorf("result carries neither value nor error")

// Result is the outcome of a fallible operation: exactly one of a value or an
// error. It exists for program code that wants to pattern-match on outcomes
// instead of early-returning, e.g. recovering from an unhandled effect by
// registering and retrying.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Err wraps a failure. A nil err degrades to ErrEmptyResult so the result
// still reports as failed.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = ErrEmptyResult
	}
	return Result[T]{err: err}
}

// ResultFrom folds a conventional (value, error) pair into a Result.
func ResultFrom[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether the result holds an error.
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the held value, or the zero value on the error side.
func (r Result[T]) Value() T { return r.value }

// Err returns the held error, or nil on the ok side.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrEmptyResult
	}
	return r.err
}

// Get unfolds the result back into a conventional (value, error) pair.
func (r Result[T]) Get() (T, error) {
	return r.value, r.Err()
}

// OrElse returns the held value, or fallback on the error side.
func (r Result[T]) OrElse(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}
