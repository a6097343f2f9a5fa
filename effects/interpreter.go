package effects

import (
	"context"
	"fmt"
	"strings"
)

// Interpreter executes effects. Handle receives one effect and returns the
// untyped value the program will be resumed with.
//
// The error return is reserved for the two unexpected tiers: routing failures
// (see UnhandledEffectError) and infrastructure failures from whatever backs
// the interpreter. Expected, modeled outcomes belong inside the returned
// value, never in the error. A missing key, for instance, comes back as a
// not-found value; a lost connection comes back as an error.
type Interpreter interface {
	Handle(ctx context.Context, eff Effect) (any, error)
}

// InterpreterFunc adapts a plain function to the Interpreter interface.
type InterpreterFunc func(ctx context.Context, eff Effect) (any, error)

// Handle calls f.
func (f InterpreterFunc) Handle(ctx context.Context, eff Effect) (any, error) {
	return f(ctx, eff)
}

var (
	// ErrNilEffect is returned when a nil effect is performed or handled.
	ErrNilEffect = fmt.Errorf("effect must not be nil")

	// ErrUnhandledEffect is the routing failure: no registered interpreter
	// claims the effect's variant tag. Match with errors.Is, or errors.As
	// against *UnhandledEffectError for the details.
	ErrUnhandledEffect = fmt.Errorf("no interpreter registered for effect")
)

// UnhandledEffectError reports an effect that reached a composite no
// registered family claims. It usually means a missing registration, not a
// bug in the program that performed the effect.
type UnhandledEffectError struct {
	// Effect is the unclaimed variant tag.
	Effect string
	// Registered lists the family names the composite does route,
	// in registration order.
	Registered []string
}

func (e *UnhandledEffectError) Error() string {
	return fmt.Sprintf("%v: %s (registered families: %s)",
		ErrUnhandledEffect, e.Effect, strings.Join(e.Registered, ", "))
}

func (e *UnhandledEffectError) Unwrap() error { return ErrUnhandledEffect }
