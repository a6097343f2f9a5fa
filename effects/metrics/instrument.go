package metrics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Names of the series Instrumented records about its delegate.
const (
	MetricExecutions = "effect_executions_total"
	MetricInProgress = "effect_in_progress"
	MetricDuration   = "effect_duration_seconds"
)

// Instrumented decorates any interpreter with execution metrics: an
// executions counter by effect tag and status, an in-progress gauge, and a
// duration histogram. It writes straight to the Collector, so the series
// land in the same registry QueryMetrics reads.
//
// The decorator is transparent: the delegate's value and error come back
// verbatim, and a failing collector only ever costs a log line.
type Instrumented struct {
	inner    effects.Interpreter
	col      Collector
	logger   *zap.Logger
	inflight sync.Map // effect tag -> *atomic.Int64
}

var _ effects.Interpreter = (*Instrumented)(nil)

// InstrumentOption configures the decorator.
type InstrumentOption func(*Instrumented)

// WithInstrumentLogger sets the logger for dropped instrumentation writes.
// Defaults to a no-op logger.
func WithInstrumentLogger(logger *zap.Logger) InstrumentOption {
	return func(ins *Instrumented) {
		if logger != nil {
			ins.logger = logger
		}
	}
}

// Instrument wraps inner and registers the decorator's three specs with col.
// Registration is idempotent, so any number of decorators can share one
// collector.
func Instrument(inner effects.Interpreter, col Collector, opts ...InstrumentOption) *Instrumented {
	ins := &Instrumented{inner: inner, col: col, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ins)
	}

	ctx := context.Background()
	ins.ensureSpec(ctx, Spec{
		Name:      MetricExecutions,
		Kind:      KindCounter,
		Help:      "Effects handled, by effect tag and status.",
		LabelKeys: []string{"effect", "status"},
	})
	ins.ensureSpec(ctx, Spec{
		Name:      MetricInProgress,
		Kind:      KindGauge,
		Help:      "Effects currently being handled, by effect tag.",
		LabelKeys: []string{"effect"},
	})
	ins.ensureSpec(ctx, Spec{
		Name:      MetricDuration,
		Kind:      KindHistogram,
		Help:      "Effect handling duration in seconds, by effect tag.",
		LabelKeys: []string{"effect"},
	})
	return ins
}

// Handle delegates to the wrapped interpreter and records the execution
// around it.
func (ins *Instrumented) Handle(ctx context.Context, eff effects.Effect) (any, error) {
	if eff == nil {
		return ins.inner.Handle(ctx, eff)
	}
	tag := eff.EffectName()

	ins.gaugeStep(ctx, tag, 1)
	defer ins.gaugeStep(ctx, tag, -1)

	start := time.Now()
	val, err := ins.inner.Handle(ctx, eff)
	elapsed := time.Since(start).Seconds()

	if werr := ins.col.ObserveHistogram(ctx, MetricDuration,
		map[string]string{"effect": tag}, elapsed); werr != nil {
		ins.dropped(MetricDuration, werr)
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	if werr := ins.col.IncrementCounter(ctx, MetricExecutions,
		map[string]string{"effect": tag, "status": status}, 1); werr != nil {
		ins.dropped(MetricExecutions, werr)
	}
	return val, err
}

// gaugeStep moves the per-tag in-flight count and re-records it as a gauge.
// The count lives here because the Collector protocol only sets gauges.
// Concurrent handles can interleave the count move and the gauge write, so
// the recorded value may trail the live count until the next step for that
// tag; it never goes negative.
func (ins *Instrumented) gaugeStep(ctx context.Context, tag string, delta int64) {
	v, _ := ins.inflight.LoadOrStore(tag, new(atomic.Int64))
	n := v.(*atomic.Int64).Add(delta)
	if err := ins.col.RecordGauge(ctx, MetricInProgress,
		map[string]string{"effect": tag}, float64(n)); err != nil {
		ins.dropped(MetricInProgress, err)
	}
}

func (ins *Instrumented) ensureSpec(ctx context.Context, raw Spec) {
	spec := normalizeSpec(raw)
	existing, ok, err := ins.col.LookupSpec(ctx, spec.Name)
	if err != nil {
		ins.dropped(spec.Name, err)
		return
	}
	if ok {
		if !specsEqual(existing, spec) {
			ins.logger.Warn("conflicting instrumentation spec already registered",
				zap.String("metric", spec.Name))
		}
		return
	}
	if err := ins.col.Register(ctx, spec); err != nil {
		ins.dropped(spec.Name, err)
	}
}

func (ins *Instrumented) dropped(metric string, err error) {
	ins.logger.Warn("instrumentation write dropped",
		zap.String("metric", metric), zap.Error(err))
}
