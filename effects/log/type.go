// Package log is the structured logging effect family. Programs emit log
// lines as effects; the leaf interpreter writes them through a zap logger.
package log

import (
	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Variant tags of the log family.
const (
	effectEmit = "log.emit"
	effectSync = "log.sync"
)

// Family is the closed log effect family.
var Family = effects.NewFamily("log", effectEmit, effectSync)

// Level is the severity of an emitted line.
type Level string

const (
	// LevelDebug is for detailed internal information.
	LevelDebug Level = "debug"

	// LevelInfo is for general informational messages.
	LevelInfo Level = "info"

	// LevelWarn is for potentially harmful situations.
	LevelWarn Level = "warn"

	// LevelError is for failures the program can survive.
	LevelError Level = "error"
)

var (
	_ Effect = Emit{}
	_ Effect = Sync{}
)

// Effect is a sealed interface for logging operations.
// Only the predefined effect types in this package can implement it.
type Effect interface {
	effects.Effect
	logEffect()
}

// Emit writes one structured log line. Unknown levels fall back to info.
type Emit struct {
	Level   Level
	Message string
	Fields  map[string]any
}

func (Emit) EffectName() string { return effectEmit }

// logEffect prevents external packages from adding variants.
func (Emit) logEffect() {}

// Emitted acknowledges an Emit.
type Emitted struct{}

// Sync flushes buffered log output.
type Sync struct{}

func (Sync) EffectName() string { return effectSync }
func (Sync) logEffect()         {}

// Synced acknowledges a Sync.
type Synced struct{}
