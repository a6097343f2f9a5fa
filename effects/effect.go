package effects

import (
	"fmt"
	"sort"
)

// Effect is an immutable description of one operation a program wants
// performed on its behalf. An effect value carries data only; executing it is
// the interpreter's job, so the same effect can be replayed, logged, or
// handled differently between production and tests.
//
// EffectName returns the variant tag, e.g. "metrics.increment_counter".
// Tags are namespaced by family and must be unique across every family
// registered with one Composite.
type Effect interface {
	EffectName() string
}

// Family is a closed set of effect variants owned by one interpreter.
// It is fixed at construction: adding a variant later means declaring a new
// family. Families are compared and routed purely by their variant tags.
type Family struct {
	name     string
	variants map[string]struct{}
}

// NewFamily builds a family from its name and the exhaustive list of variant
// tags it owns.
//
// Families are static package wiring, so malformed input is a programming
// error: panics on an empty name, an empty or blank tag, or a duplicate tag.
func NewFamily(name string, variants ...string) Family {
	if name == "" {
		panic("effects: family name must not be empty")
	}
	if len(variants) == 0 {
		panic(fmt.Sprintf("effects: family %s declared without variants", name))
	}
	set := make(map[string]struct{}, len(variants))
	for _, tag := range variants {
		if tag == "" {
			panic(fmt.Sprintf("effects: family %s declared a blank variant tag", name))
		}
		if _, dup := set[tag]; dup {
			panic(fmt.Sprintf("effects: family %s declared variant %s twice", name, tag))
		}
		set[tag] = struct{}{}
	}
	return Family{name: name, variants: set}
}

// Name returns the family name.
func (f Family) Name() string { return f.name }

// Contains reports whether eff belongs to this family.
func (f Family) Contains(eff Effect) bool {
	if eff == nil {
		return false
	}
	_, ok := f.variants[eff.EffectName()]
	return ok
}

// Variants returns the family's variant tags as a sorted copy.
func (f Family) Variants() []string {
	tags := make([]string, 0, len(f.variants))
	for tag := range f.variants {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// EffectReturn pairs an interpreter's untyped return value with the tag of
// the effect that produced it. Only the runner constructs these.
type EffectReturn struct {
	// Effect is the variant tag of the performed effect.
	Effect string
	// Value is whatever the interpreter returned for it.
	Value any
}
