// Package coro implements the one-shot coroutine underneath the program
// runner: a body function running in its own goroutine, exchanging control
// with a single driver through unbuffered channels.
//
// The driver walks the body one suspension at a time: Step runs it to the
// first yield or to completion, Resume delivers a resumption value and runs
// it to the next. Each Suspension may be resumed at most once; resuming it
// twice is a programming error and panics.
package coro

import "context"

// Yield is the function handed to the body for suspension points. It blocks
// until the driver resumes the coroutine with a value of type R. The error
// is non-nil only when the coroutine is cancelled while suspended.
type Yield[Y, R any] func(ctx context.Context, y Y) (R, error)

// Body is the coroutine function. It runs on its own goroutine, may call
// yield any number of times, and terminates by returning.
type Body[Y, R, T any] func(ctx context.Context, yield Yield[Y, R]) (T, error)

type outcome[T any] struct {
	value T
	err   error
}

// Coroutine is a suspendable computation with exactly one driver.
//
// IMPORTANT: a Coroutine is intentionally NOT safe for concurrent driving.
// It assumes a single goroutine calls Step/Resume/Cancel; the whole point of
// the design is that the body's suspension points are strictly sequential.
// Sharing the driver side across goroutines is undefined behavior.
type Coroutine[Y, R, T any] struct {
	yieldCh  chan Y
	resumeCh chan R
	doneCh   chan outcome[T]
	cancel   context.CancelFunc
	finished bool
}

// New starts body on its own goroutine and returns the driver handle.
// The body begins running immediately but blocks at its first yield (or at
// completion) until the driver calls Step.
//
// Callers that abandon a coroutine without driving it to completion must
// call Cancel, or the body goroutine leaks.
func New[Y, R, T any](ctx context.Context, body Body[Y, R, T]) *Coroutine[Y, R, T] {
	bodyCtx, cancel := context.WithCancel(ctx)
	c := &Coroutine[Y, R, T]{
		yieldCh:  make(chan Y),
		resumeCh: make(chan R),
		doneCh:   make(chan outcome[T], 1),
		cancel:   cancel,
	}

	yield := func(ctx context.Context, y Y) (R, error) {
		var zero R
		select {
		case c.yieldCh <- y:
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-bodyCtx.Done():
			return zero, bodyCtx.Err()
		}
		select {
		case r := <-c.resumeCh:
			return r, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-bodyCtx.Done():
			return zero, bodyCtx.Err()
		}
	}

	go func() {
		v, err := body(bodyCtx, yield)
		select {
		case c.doneCh <- outcome[T]{value: v, err: err}:
		case <-bodyCtx.Done():
		}
	}()

	return c
}

// Step runs the coroutine until its first suspension or completion.
// Returns (value, nil, err) on completion, or (zero, suspension, nil) when
// the body is suspended on a yield. A ctx cancellation while waiting aborts
// the coroutine and returns ctx.Err().
func (c *Coroutine[Y, R, T]) Step(ctx context.Context) (T, *Suspension[Y, R, T], error) {
	return c.wait(ctx)
}

// Cancel stops the body goroutine. Idempotent; safe to defer alongside
// normal completion.
func (c *Coroutine[Y, R, T]) Cancel() {
	c.cancel()
}

func (c *Coroutine[Y, R, T]) wait(ctx context.Context) (T, *Suspension[Y, R, T], error) {
	if c.finished {
		panic("coro: coroutine driven past completion")
	}
	var zero T
	select {
	case out := <-c.doneCh:
		c.finished = true
		return out.value, nil, out.err
	case y := <-c.yieldCh:
		return zero, &Suspension[Y, R, T]{co: c, op: y}, nil
	case <-ctx.Done():
		c.cancel()
		return zero, nil, ctx.Err()
	}
}

// Suspension is a pending yield with a one-shot resumption handle.
type Suspension[Y, R, T any] struct {
	co      *Coroutine[Y, R, T]
	op      Y
	resumed bool
}

// Op returns the value the body yielded at this suspension point.
func (s *Suspension[Y, R, T]) Op() Y {
	return s.op
}

// Resume delivers r to the suspended body and runs it to the next suspension
// or to completion. Affine: resuming the same Suspension twice panics.
//
// A ctx cancellation while delivering (or while waiting for the next
// suspension) aborts the coroutine and returns ctx.Err(); the body is never
// resumed with a partial value.
func (s *Suspension[Y, R, T]) Resume(ctx context.Context, r R) (T, *Suspension[Y, R, T], error) {
	if s.resumed {
		panic("coro: suspension resumed twice")
	}
	s.resumed = true

	select {
	case s.co.resumeCh <- r:
	case <-ctx.Done():
		s.co.cancel()
		var zero T
		return zero, nil, ctx.Err()
	}
	return s.co.wait(ctx)
}
