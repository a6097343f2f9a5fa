// Package assembly is the resource assembly effect family. Programs open
// and close backend handles (database pools, key-value clients) as effects,
// so wiring lives in interpreters instead of package-level singletons.
package assembly

import (
	"github.com/on-the-ground/interpret_ive_go/effects"
	"github.com/on-the-ground/interpret_ive_go/effects/db"
	"github.com/on-the-ground/interpret_ive_go/effects/kv"
)

// Variant tags of the assembly family.
const (
	effectOpenDatabase  = "assembly.open_database"
	effectOpenKeyValue  = "assembly.open_keyvalue"
	effectCloseDatabase = "assembly.close_database"
	effectCloseKeyValue = "assembly.close_keyvalue"
)

// Family is the closed assembly effect family.
var Family = effects.NewFamily("assembly",
	effectOpenDatabase,
	effectOpenKeyValue,
	effectCloseDatabase,
	effectCloseKeyValue,
)

// Kinds carried by handles.
const (
	KindDatabasePool   = "database.pool"
	KindKeyValueClient = "keyvalue.client"
)

// Handle is an opaque reference to an opened resource. The program that
// performed the open owns it and closes it through this family.
type Handle[T any] struct {
	Kind     string
	Resource T
}

var (
	_ Effect = OpenDatabase{}
	_ Effect = OpenKeyValue{}
	_ Effect = CloseDatabase{}
	_ Effect = CloseKeyValue{}
)

// Effect is a sealed interface for assembly operations.
// Only the predefined effect types in this package can implement it.
type Effect interface {
	effects.Effect
	assemblyEffect()
}

// OpenDatabase dials a database pool from a DSN.
type OpenDatabase struct {
	DSN string
}

func (OpenDatabase) EffectName() string { return effectOpenDatabase }

// assemblyEffect prevents external packages from adding variants.
func (OpenDatabase) assemblyEffect() {}

// OpenKeyValue dials a key-value client from a URL.
type OpenKeyValue struct {
	URL string
}

func (OpenKeyValue) EffectName() string { return effectOpenKeyValue }
func (OpenKeyValue) assemblyEffect()    {}

// CloseDatabase releases a pool obtained from OpenDatabase.
type CloseDatabase struct {
	Handle Handle[db.Pool]
}

func (CloseDatabase) EffectName() string { return effectCloseDatabase }
func (CloseDatabase) assemblyEffect()    {}

// CloseKeyValue releases a client obtained from OpenKeyValue.
type CloseKeyValue struct {
	Handle Handle[kv.Client]
}

func (CloseKeyValue) EffectName() string { return effectCloseKeyValue }
func (CloseKeyValue) assemblyEffect()    {}

// Closed acknowledges a close, echoing the kind of the released resource.
type Closed struct {
	Kind string
}
