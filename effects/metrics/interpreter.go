package metrics

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Interpreter is the metrics leaf: it validates every effect against the
// registered specs and only then touches the Collector.
//
// Recording effects always come back as RecordOutcome values. A rejected
// sample, an unregistered name, even a broken collector: all of it is data
// for the caller, never an error that could take the caller down. Query and
// Reset are the exception; they are reads and admin, so infrastructure
// failures pass through as errors. Querying a name nothing has recorded is
// not a failure either way: it reads as empty.
type Interpreter struct {
	col    Collector
	logger *zap.Logger
}

var _ effects.Interpreter = (*Interpreter)(nil)

// Option configures the interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used to surface swallowed collector failures.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(it *Interpreter) {
		if logger != nil {
			it.logger = logger
		}
	}
}

// NewInterpreter builds the metrics interpreter over col.
func NewInterpreter(col Collector, opts ...Option) *Interpreter {
	it := &Interpreter{col: col, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Handle executes one metrics effect.
func (it *Interpreter) Handle(ctx context.Context, eff effects.Effect) (any, error) {
	switch e := eff.(type) {
	case RegisterMetrics:
		outcomes := make([]RecordOutcome, 0, len(e.Specs))
		for _, spec := range e.Specs {
			outcomes = append(outcomes, it.registerOne(ctx, spec))
		}
		return outcomes, nil
	case IncrementCounter:
		return it.record(ctx, KindCounter, e.Name, e.Labels, e.Value, func(ctx context.Context) error {
			return it.col.IncrementCounter(ctx, e.Name, e.Labels, e.Value)
		}), nil
	case RecordGauge:
		return it.record(ctx, KindGauge, e.Name, e.Labels, e.Value, func(ctx context.Context) error {
			return it.col.RecordGauge(ctx, e.Name, e.Labels, e.Value)
		}), nil
	case ObserveHistogram:
		return it.record(ctx, KindHistogram, e.Name, e.Labels, e.Value, func(ctx context.Context) error {
			return it.col.ObserveHistogram(ctx, e.Name, e.Labels, e.Value)
		}), nil
	case RecordSummary:
		return it.record(ctx, KindSummary, e.Name, e.Labels, e.Value, func(ctx context.Context) error {
			return it.col.RecordSummary(ctx, e.Name, e.Labels, e.Value)
		}), nil
	case QueryMetrics:
		return it.col.Query(ctx, e.Name)
	case ResetMetrics:
		if err := it.col.Reset(ctx); err != nil {
			return nil, err
		}
		return MetricsReset{}, nil
	default:
		return nil, fmt.Errorf("unexpected metrics effect: %T", eff)
	}
}

func (it *Interpreter) registerOne(ctx context.Context, raw Spec) RecordOutcome {
	if detail := validateSpec(raw); detail != "" {
		return MetricRecordingFailed{Name: raw.Name, Reason: ReasonInvalidSpec, Detail: detail}
	}
	spec := normalizeSpec(raw)

	existing, ok, err := it.col.LookupSpec(ctx, spec.Name)
	if err != nil {
		return it.collectorFailure(spec.Name, err)
	}
	if ok {
		if specsEqual(existing, spec) {
			return MetricRecorded{Name: spec.Name, Kind: spec.Kind}
		}
		return MetricRecordingFailed{
			Name:   spec.Name,
			Reason: ReasonDuplicateMetric,
			Detail: fmt.Sprintf("already registered as %s with different shape", existing.Kind),
		}
	}
	if err := it.col.Register(ctx, spec); err != nil {
		return it.collectorFailure(spec.Name, err)
	}
	return MetricRecorded{Name: spec.Name, Kind: spec.Kind}
}

// record runs the shared validation chain for all four recording effects:
// registered name, matching kind, exact label keys, usable value, and only
// then the collector write.
func (it *Interpreter) record(
	ctx context.Context,
	kind Kind,
	name string,
	labels map[string]string,
	value float64,
	op func(context.Context) error,
) RecordOutcome {
	spec, ok, err := it.col.LookupSpec(ctx, name)
	if err != nil {
		return it.collectorFailure(name, err)
	}
	if !ok {
		return MetricRecordingFailed{
			Name:   name,
			Reason: ReasonMetricNotRegistered,
			Detail: "register the metric before recording",
		}
	}
	if spec.Kind != kind {
		return MetricRecordingFailed{
			Name:   name,
			Reason: ReasonInvalidKind,
			Detail: fmt.Sprintf("registered as %s, recorded as %s", spec.Kind, kind),
		}
	}
	if detail := labelMismatch(spec.LabelKeys, labels); detail != "" {
		return MetricRecordingFailed{Name: name, Reason: ReasonInvalidLabels, Detail: detail}
	}
	if detail := invalidValue(kind, value); detail != "" {
		return MetricRecordingFailed{Name: name, Reason: ReasonInvalidValue, Detail: detail}
	}
	if err := op(ctx); err != nil {
		return it.collectorFailure(name, err)
	}
	return MetricRecorded{Name: name, Kind: kind}
}

func (it *Interpreter) collectorFailure(name string, err error) RecordOutcome {
	it.logger.Warn("metrics collector failure",
		zap.String("metric", name), zap.Error(err))
	return MetricRecordingFailed{Name: name, Reason: ReasonCollectorError, Detail: err.Error()}
}

func validateSpec(spec Spec) string {
	if spec.Name == "" {
		return "name must not be empty"
	}
	switch spec.Kind {
	case KindCounter, KindGauge, KindHistogram, KindSummary:
	default:
		return fmt.Sprintf("unknown kind: %q", string(spec.Kind))
	}
	seen := make(map[string]struct{}, len(spec.LabelKeys))
	for _, key := range spec.LabelKeys {
		if key == "" {
			return "label keys must not be blank"
		}
		if _, dup := seen[key]; dup {
			return fmt.Sprintf("duplicate label key: %s", key)
		}
		seen[key] = struct{}{}
	}
	if len(spec.Buckets) > 0 {
		if spec.Kind != KindHistogram {
			return "buckets are only valid on histograms"
		}
		prev := math.Inf(-1)
		for _, upper := range spec.Buckets {
			if math.IsNaN(upper) || math.IsInf(upper, 0) || upper <= prev {
				return "buckets must be finite and strictly ascending"
			}
			prev = upper
		}
	}
	if len(spec.Quantiles) > 0 {
		if spec.Kind != KindSummary {
			return "quantiles are only valid on summaries"
		}
		for _, q := range spec.Quantiles {
			if math.IsNaN(q) || q <= 0 || q >= 1 {
				return "quantiles must lie in (0, 1)"
			}
		}
	}
	return ""
}

// normalizeSpec canonicalizes a validated spec: sorted label keys, own
// copies of the slices, and default buckets/quantiles filled in.
func normalizeSpec(spec Spec) Spec {
	out := spec
	out.LabelKeys = slices.Clone(spec.LabelKeys)
	sort.Strings(out.LabelKeys)
	out.Buckets = slices.Clone(spec.Buckets)
	out.Quantiles = slices.Clone(spec.Quantiles)
	if spec.Kind == KindHistogram && len(out.Buckets) == 0 {
		out.Buckets = slices.Clone(DefaultBuckets)
	}
	if spec.Kind == KindSummary && len(out.Quantiles) == 0 {
		out.Quantiles = slices.Clone(DefaultQuantiles)
	}
	return out
}

func specsEqual(a, b Spec) bool {
	return a.Name == b.Name &&
		a.Kind == b.Kind &&
		a.Help == b.Help &&
		slices.Equal(a.LabelKeys, b.LabelKeys) &&
		slices.Equal(a.Buckets, b.Buckets) &&
		slices.Equal(a.Quantiles, b.Quantiles)
}

func labelMismatch(keys []string, labels map[string]string) string {
	if len(labels) != len(keys) {
		return fmt.Sprintf("want %d label(s), got %d", len(keys), len(labels))
	}
	for _, key := range keys {
		if _, ok := labels[key]; !ok {
			return fmt.Sprintf("missing label: %s", key)
		}
	}
	return ""
}

func invalidValue(kind Kind, value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "value must be finite"
	}
	if kind == KindCounter && value < 0 {
		return "counter delta must not be negative"
	}
	return ""
}
