// Package effectstest provides interpreters for testing programs without
// real interpreters or backends.
//
// A program is deterministic in its effect results, so replaying a scripted
// sequence of results against it pins down its behavior completely.
package effectstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

var (
	// ErrScriptExhausted reports an effect performed after the script ran out.
	ErrScriptExhausted = fmt.Errorf("script exhausted")
	// ErrScriptMismatch reports an effect whose tag differs from the scripted
	// step at its position.
	ErrScriptMismatch = fmt.Errorf("effect does not match script")
)

// Step is one canned exchange: the variant tag the program is expected to
// perform at this position, and the value or error to resume it with.
type Step struct {
	Effect string
	Return any
	Err    error
}

// Scripted is an Interpreter that replays an ordered script of canned
// results and records every effect it receives. Any deviation from the
// script comes back as an error, which the program under test surfaces.
type Scripted struct {
	mu    sync.Mutex
	steps []Step
	next  int
	calls []effects.Effect
}

var _ effects.Interpreter = (*Scripted)(nil)

// NewScripted builds a scripted interpreter over the given steps.
func NewScripted(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

// Handle records eff and replays the next scripted step.
func (s *Scripted) Handle(_ context.Context, eff effects.Effect) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, eff)
	if s.next >= len(s.steps) {
		return nil, fmt.Errorf("%w: unexpected %s after %d steps",
			ErrScriptExhausted, eff.EffectName(), len(s.steps))
	}
	step := s.steps[s.next]
	s.next++
	if step.Effect != eff.EffectName() {
		return nil, fmt.Errorf("%w: step %d wants %s, got %s",
			ErrScriptMismatch, s.next-1, step.Effect, eff.EffectName())
	}
	return step.Return, step.Err
}

// Calls returns every effect received so far, in order.
func (s *Scripted) Calls() []effects.Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]effects.Effect, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// Remaining returns how many scripted steps were never consumed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) - s.next
}
