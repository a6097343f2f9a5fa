// Package effects provides an algebraic-effect execution engine for Go.
//
// Interpret-ive Go separates the description of side effects from their
// execution: programs yield effect values (plain data), interpreters execute
// them, and a runner drives the two, keeping your business logic pure,
// testable, and reusable.
//
// # What is an Effect?
//
// An effect is an immutable value describing one operation:
//   - what should happen (the variant tag, e.g. "kv.get"),
//   - with which inputs (the value's fields),
//   - and nothing about how, when, or against which backend.
//
// Effects come in closed families (metrics, kv, db, ...). Each family is an
// exhaustive set of variant tags declared with NewFamily and owned by one
// interpreter.
//
// # How does it work?
//
// A Program performs effects through its Scope and suspends at each one. Run
// drives the program: it steps to the next suspension, hands the effect to
// the Interpreter, and resumes the program with the result. Effects are
// handled exactly once, in program order, never concurrently within one run.
//
// Interpreters compose: NewComposite routes whole families to leaf
// interpreters and rejects overlapping families at construction, so routing
// never depends on registration order. Decorators such as
// metrics.Instrument wrap any interpreter without changing what it returns.
//
// # Errors
//
// Three kinds of failure stay distinct end to end:
//   - expected outcomes are modeled values inside the interpreter's return
//     (a missing key, a rejected metric sample),
//   - routing failures surface as *UnhandledEffectError,
//   - infrastructure failures are ordinary wrapped errors from the backing
//     adapter.
//
// Programs see all three through Scope.Perform and may recover from any of
// them; whatever the program returns is what Run returns.
//
// # Testing
//
// Because effects are data and interpreters are values, a program is tested
// by replaying a scripted sequence of results against it (see the
// effectstest package). Equal result sequences give equal outcomes.
//
// Example:
//
//	prog := func(ctx context.Context, sc *effects.Scope) (string, error) {
//	    res, err := effects.Perform[kv.GetResult](ctx, sc, kv.Get{Key: "greeting"})
//	    if err != nil {
//	        return "", err
//	    }
//	    return res.Value, nil
//	}
//
//	comp := effects.MustComposite(effects.Registration{
//	    Family:      kv.Family,
//	    Interpreter: kv.NewInterpreter(kv.NewMemoryClient()),
//	})
//	greeting, err := effects.Run(ctx, prog, comp)
package effects
