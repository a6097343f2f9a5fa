package effects

import (
	"context"
	"fmt"
)

var (
	// ErrNoRegistrations is returned by NewComposite when called without any
	// registration.
	ErrNoRegistrations = fmt.Errorf("composite needs at least one registration")

	// ErrNilInterpreter is returned when a registration carries no interpreter.
	ErrNilInterpreter = fmt.Errorf("interpreter must not be nil")

	// ErrEmptyFamily is returned when a registration carries a zero Family,
	// i.e. one not built with NewFamily.
	ErrEmptyFamily = fmt.Errorf("family has no variants")

	// ErrOverlappingFamilies is the construction failure for two families
	// claiming the same variant tag. Match with errors.Is, or errors.As
	// against *OverlapError for the colliding tag.
	ErrOverlappingFamilies = fmt.Errorf("effect families overlap")
)

// OverlapError reports a variant tag claimed by two registered families.
// Routing must stay order-independent, so the collision is rejected when the
// composite is built, never resolved at dispatch time.
type OverlapError struct {
	// Variant is the colliding tag.
	Variant string
	// Families are the two claimants, in registration order.
	Families [2]string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: variant %s claimed by both %s and %s",
		ErrOverlappingFamilies, e.Variant, e.Families[0], e.Families[1])
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingFamilies }

// Registration binds one effect family to the interpreter that executes it.
type Registration struct {
	Family      Family
	Interpreter Interpreter
}

// Composite routes effects to interpreters by variant tag. It holds no
// per-effect state and is safe for concurrent use by any number of programs.
type Composite struct {
	table    map[string]Interpreter
	families []string
}

var _ Interpreter = (*Composite)(nil)

// NewComposite builds a router over the given registrations.
//
// Every variant tag must be claimed by exactly one family: any overlap is
// rejected here with an *OverlapError. Nil interpreters and zero families are
// rejected as well, so a composite that constructs is fully routable.
func NewComposite(regs ...Registration) (*Composite, error) {
	if len(regs) == 0 {
		return nil, ErrNoRegistrations
	}
	table := make(map[string]Interpreter)
	owner := make(map[string]string)
	families := make([]string, 0, len(regs))
	for i, reg := range regs {
		name := reg.Family.Name()
		variants := reg.Family.Variants()
		if name == "" || len(variants) == 0 {
			return nil, fmt.Errorf("%w: registration %d", ErrEmptyFamily, i)
		}
		if reg.Interpreter == nil {
			return nil, fmt.Errorf("%w: registration %d (%s)", ErrNilInterpreter, i, name)
		}
		for _, tag := range variants {
			if prev, taken := owner[tag]; taken {
				return nil, &OverlapError{Variant: tag, Families: [2]string{prev, name}}
			}
			owner[tag] = name
			table[tag] = reg.Interpreter
		}
		families = append(families, name)
	}
	return &Composite{table: table, families: families}, nil
}

// MustComposite is the panic-on-failure variant of NewComposite, for static
// wiring where a broken registration set is a programming error.
func MustComposite(regs ...Registration) *Composite {
	c, err := NewComposite(regs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Handle routes eff to the interpreter whose family claims its variant tag
// and returns that interpreter's result verbatim. An unclaimed tag returns an
// *UnhandledEffectError naming the registered families.
func (c *Composite) Handle(ctx context.Context, eff Effect) (any, error) {
	if eff == nil {
		return nil, ErrNilEffect
	}
	in, ok := c.table[eff.EffectName()]
	if !ok {
		return nil, &UnhandledEffectError{Effect: eff.EffectName(), Registered: c.Families()}
	}
	return in.Handle(ctx, eff)
}

// Families returns the registered family names in registration order.
func (c *Composite) Families() []string {
	names := make([]string, len(c.families))
	copy(names, c.families)
	return names
}
