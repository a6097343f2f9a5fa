package effects

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/interpret_ive_go/effects/internal/coro"
)

// ErrNilProgram is returned by Run when given a nil program.
var ErrNilProgram = fmt.Errorf("program must not be nil")

type runConfig struct {
	logger *zap.Logger
	runID  string
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithRunLogger attaches a logger to the run. Every suspension is logged at
// debug level with the run id and effect tag. Defaults to a no-op logger.
func WithRunLogger(logger *zap.Logger) RunOption {
	return func(cfg *runConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRunID overrides the generated run id, e.g. to correlate a run with an
// upstream request id.
func WithRunID(id string) RunOption {
	return func(cfg *runConfig) {
		if id != "" {
			cfg.runID = id
		}
	}
}

// Run drives prog to completion against interp and returns the program's
// outcome.
//
// The loop is strictly sequential: each effect the program performs is
// handled exactly once, in program order, and the program stays suspended
// until its result is back. The runner adds no interpretation of its own;
// interpreter values and errors are passed into the program verbatim, and
// what Run returns is whatever the program returned.
//
// On ctx cancellation the run aborts with ctx.Err(). The program is never
// resumed with a partial result: it observes cancellation at its suspension
// point and unwinds. Run always reclaims the program goroutine before
// returning.
func Run[T any](ctx context.Context, prog Program[T], interp Interpreter, opts ...RunOption) (T, error) {
	var zero T
	if prog == nil {
		return zero, ErrNilProgram
	}
	if interp == nil {
		return zero, ErrNilInterpreter
	}

	cfg := runConfig{logger: zap.NewNop(), runID: uuid.NewString()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With(zap.String("run_id", cfg.runID))

	co := coro.New(ctx, func(ctx context.Context, yield coro.Yield[Effect, performOutcome]) (T, error) {
		return prog(ctx, &Scope{runID: cfg.runID, yield: yield})
	})
	defer co.Cancel()

	logger.Debug("run started")
	value, susp, err := co.Step(ctx)
	for susp != nil {
		tag := susp.Op().EffectName()
		logger.Debug("performing effect", zap.String("effect", tag))

		val, herr := interp.Handle(ctx, susp.Op())
		out := performOutcome{err: herr}
		if herr != nil {
			logger.Debug("effect failed", zap.String("effect", tag), zap.Error(herr))
		} else {
			out.ret = EffectReturn{Effect: tag, Value: val}
		}
		value, susp, err = susp.Resume(ctx, out)
	}
	if err != nil {
		logger.Debug("run failed", zap.Error(err))
		return zero, err
	}
	logger.Debug("run finished")
	return value, nil
}
