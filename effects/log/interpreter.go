package log

import (
	"context"
	"fmt"

	"github.com/on-the-ground/interpret_ive_go/effects"
	"go.uber.org/zap"
)

var _ effects.Interpreter = (*Interpreter)(nil)

// Interpreter writes log effects through a zap logger.
type Interpreter struct {
	logger *zap.Logger
}

// NewInterpreter wraps a zap logger. A nil logger discards everything.
func NewInterpreter(logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{logger: logger}
}

func (in *Interpreter) Handle(_ context.Context, eff effects.Effect) (any, error) {
	switch e := eff.(type) {
	case Emit:
		fields := make([]zap.Field, 0, len(e.Fields))
		for k, v := range e.Fields {
			fields = append(fields, zap.Any(k, v))
		}

		switch e.Level {
		case LevelDebug:
			in.logger.Debug(e.Message, fields...)
		case LevelInfo:
			in.logger.Info(e.Message, fields...)
		case LevelWarn:
			in.logger.Warn(e.Message, fields...)
		case LevelError:
			in.logger.Error(e.Message, fields...)
		default:
			in.logger.Info(e.Message, fields...)
		}
		return Emitted{}, nil
	case Sync:
		// Sync failures on console sinks are routine, so they demote to a
		// warning instead of failing the effect.
		if err := in.logger.Sync(); err != nil {
			in.logger.Warn("failed to sync logger", zap.Error(err))
		}
		return Synced{}, nil
	default:
		return nil, fmt.Errorf("unexpected log effect: %T", eff)
	}
}
