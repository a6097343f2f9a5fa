// Package kv is the key-value effect family: string reads and writes with
// optional expiry, plus fire-and-forget channel publishes. Backends plug in
// through the Client protocol; go-redis and an in-memory client ship here.
package kv

import (
	"time"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Variant tags of the kv family.
const (
	effectGet     = "kv.get"
	effectSet     = "kv.set"
	effectDelete  = "kv.delete"
	effectPublish = "kv.publish"
)

// Family is the closed kv effect family.
var Family = effects.NewFamily("kv", effectGet, effectSet, effectDelete, effectPublish)

var (
	_ Effect = Get{}
	_ Effect = Set{}
	_ Effect = Delete{}
	_ Effect = Publish{}
)

// Effect is a sealed interface for key-value operations.
// Only the predefined effect types in this package can implement it.
type Effect interface {
	effects.Effect
	kvEffect()
}

// Get reads a key.
type Get struct {
	Key string
}

func (Get) EffectName() string { return effectGet }

// kvEffect prevents external packages from adding variants.
func (Get) kvEffect() {}

// GetResult is the outcome of a Get. A missing key is a modeled outcome
// (Found false), never an error.
type GetResult struct {
	Value string
	Found bool
}

// Set writes a key. A zero TTL means the key never expires.
type Set struct {
	Key   string
	Value string
	TTL   time.Duration
}

func (Set) EffectName() string { return effectSet }
func (Set) kvEffect()          {}

// SetDone acknowledges a Set.
type SetDone struct{}

// Delete removes a key.
type Delete struct {
	Key string
}

func (Delete) EffectName() string { return effectDelete }
func (Delete) kvEffect()          {}

// DeleteResult reports whether the key existed.
type DeleteResult struct {
	Deleted bool
}

// Publish sends a payload to every subscriber of a channel.
type Publish struct {
	Channel string
	Payload string
}

func (Publish) EffectName() string { return effectPublish }
func (Publish) kvEffect()          {}

// PublishResult reports how many subscribers received the payload.
type PublishResult struct {
	Receivers int64
}
