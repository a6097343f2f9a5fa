package effects

import (
	"context"

	"github.com/on-the-ground/interpret_ive_go/effects/internal/coro"
	"github.com/on-the-ground/interpret_ive_go/shared/helper"
)

// Program is a suspendable computation producing a T. Everything the program
// wants from the outside world goes through its Scope; between suspensions it
// runs plain sequential Go. Given the same sequence of effect results, a
// program must reach the same outcome, which is what makes scripted replay
// testing possible.
type Program[T any] func(ctx context.Context, sc *Scope) (T, error)

// performOutcome carries one handled effect back into the program:
// either the interpreter's return value or its error.
type performOutcome struct {
	ret EffectReturn
	err error
}

// Scope is the program side of a run: performing an effect suspends the
// program until the runner has had the effect handled.
//
// A Scope belongs to the goroutine of exactly one run. It is not safe for
// concurrent use, and it must not outlive the program it was passed to.
type Scope struct {
	runID string
	yield coro.Yield[Effect, performOutcome]
}

// RunID returns the identifier of the run driving this program.
func (sc *Scope) RunID() string { return sc.runID }

// Perform suspends the program on eff and returns the interpreter's result
// once the runner resumes it.
//
// Errors are the unexpected tiers only: routing failures, infrastructure
// failures, and ctx.Err() when the run is cancelled mid-suspension. Modeled
// outcomes arrive inside the EffectReturn value.
func (sc *Scope) Perform(ctx context.Context, eff Effect) (EffectReturn, error) {
	if eff == nil {
		return EffectReturn{}, ErrNilEffect
	}
	out, err := sc.yield(ctx, eff)
	if err != nil {
		return EffectReturn{}, err
	}
	if out.err != nil {
		return EffectReturn{}, out.err
	}
	return out.ret, nil
}

// PerformResult is Perform folded into a Result, for programs that
// pattern-match on failures instead of propagating them.
func (sc *Scope) PerformResult(ctx context.Context, eff Effect) Result[EffectReturn] {
	return ResultFrom(sc.Perform(ctx, eff))
}

// Perform performs eff through sc and asserts the returned value to R.
// Returns an error if the effect fails or the interpreter returned a value of
// a different type.
func Perform[R any](ctx context.Context, sc *Scope, eff Effect) (R, error) {
	return helper.GetTypedValueOf[R](func() (any, error) {
		ret, err := sc.Perform(ctx, eff)
		if err != nil {
			return nil, err
		}
		return ret.Value, nil
	})
}

// MustPerform is the panic-on-failure variant of Perform.
// It panics if the effect fails or the value doesn't match R. Use only where
// the composite wiring statically guarantees both.
func MustPerform[R any](ctx context.Context, sc *Scope, eff Effect) R {
	return helper.MustGetTypedValue[R](func() (any, error) {
		ret, err := sc.Perform(ctx, eff)
		if err != nil {
			return nil, err
		}
		return ret.Value, nil
	})
}
