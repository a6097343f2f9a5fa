package helper

import (
	"fmt"
)

// ErrTypeMismatch is returned when a fetched value is not of the requested type.
var ErrTypeMismatch = fmt.Errorf("unexpected value type")

// GetTypedValueOf asserts the result of a getter function to the expected type T.
// Getter errors pass through untouched so callers can keep matching on them.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, err
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %T, got %T", ErrTypeMismatch, zero, res)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., when the interpreter wiring is
// statically guaranteed).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

var ErrMaxAttempts = fmt.Errorf("max attempts reached")

// Retry runs fn until it succeeds or maxAttempts failures have accumulated.
// fn owns its own backoff; Retry adds none.
func Retry(maxAttempts int, fn func() error) error {
	numAttempts := 0
	for {
		err := fn()
		if err == nil {
			return nil
		}
		numAttempts++
		if numAttempts >= maxAttempts {
			return fmt.Errorf("%w: %d, %w", ErrMaxAttempts, numAttempts, err)
		}
	}
}
