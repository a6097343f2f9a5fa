package metrics_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/on-the-ground/interpret_ive_go/effects"
	"github.com/on-the-ground/interpret_ive_go/effects/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistered(t *testing.T, specs ...metrics.Spec) (*metrics.Interpreter, *metrics.MemoryCollector) {
	t.Helper()
	col := metrics.NewMemoryCollector()
	it := metrics.NewInterpreter(col)

	out, err := it.Handle(context.Background(), metrics.RegisterMetrics{Specs: specs})
	require.NoError(t, err)
	for _, outcome := range out.([]metrics.RecordOutcome) {
		require.IsType(t, metrics.MetricRecorded{}, outcome)
	}
	return it, col
}

func counterSpec() metrics.Spec {
	return metrics.Spec{
		Name:      "requests_total",
		Kind:      metrics.KindCounter,
		Help:      "Requests served.",
		LabelKeys: []string{"route"},
	}
}

func record(t *testing.T, it *metrics.Interpreter, eff metrics.Effect) metrics.RecordOutcome {
	t.Helper()
	out, err := it.Handle(context.Background(), eff)
	require.NoError(t, err, "recording effects must never error")
	outcome, ok := out.(metrics.RecordOutcome)
	require.True(t, ok, "want RecordOutcome, got %T", out)
	return outcome
}

func requireFailed(t *testing.T, outcome metrics.RecordOutcome, reason metrics.FailureReason) metrics.MetricRecordingFailed {
	t.Helper()
	failed, ok := outcome.(metrics.MetricRecordingFailed)
	require.True(t, ok, "want MetricRecordingFailed, got %#v", outcome)
	assert.Equal(t, reason, failed.Reason)
	assert.NotEmpty(t, failed.Detail)
	return failed
}

func TestInterpreter_RegisterThenRecord(t *testing.T) {
	it, _ := newRegistered(t, counterSpec())

	outcome := record(t, it, metrics.IncrementCounter{
		Name:   "requests_total",
		Labels: map[string]string{"route": "/users"},
		Value:  1,
	})
	assert.Equal(t, metrics.MetricRecorded{Name: "requests_total", Kind: metrics.KindCounter}, outcome)

	out, err := it.Handle(context.Background(), metrics.QueryMetrics{Name: "requests_total"})
	require.NoError(t, err)
	samples := out.([]metrics.Sample)
	require.Len(t, samples, 1)
	assert.Equal(t, 1.0, samples[0].Value)
	assert.Equal(t, map[string]string{"route": "/users"}, samples[0].Labels)
}

func TestInterpreter_RecordingNeverErrors(t *testing.T) {
	it, _ := newRegistered(t, counterSpec(),
		metrics.Spec{Name: "temperature", Kind: metrics.KindGauge},
		metrics.Spec{Name: "latency", Kind: metrics.KindHistogram},
	)

	tests := []struct {
		name   string
		eff    metrics.Effect
		reason metrics.FailureReason
	}{
		{
			name:   "unregistered metric",
			eff:    metrics.IncrementCounter{Name: "nope", Value: 1},
			reason: metrics.ReasonMetricNotRegistered,
		},
		{
			name: "negative counter delta",
			eff: metrics.IncrementCounter{
				Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: -1,
			},
			reason: metrics.ReasonInvalidValue,
		},
		{
			name: "kind mismatch",
			eff: metrics.RecordGauge{
				Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: 3,
			},
			reason: metrics.ReasonInvalidKind,
		},
		{
			name: "missing label",
			eff: metrics.IncrementCounter{
				Name: "requests_total", Value: 1,
			},
			reason: metrics.ReasonInvalidLabels,
		},
		{
			name: "extra label",
			eff: metrics.IncrementCounter{
				Name:   "requests_total",
				Labels: map[string]string{"route": "/", "verb": "GET"},
				Value:  1,
			},
			reason: metrics.ReasonInvalidLabels,
		},
		{
			name: "wrong label key",
			eff: metrics.IncrementCounter{
				Name:   "requests_total",
				Labels: map[string]string{"path": "/"},
				Value:  1,
			},
			reason: metrics.ReasonInvalidLabels,
		},
		{
			name:   "gauge NaN",
			eff:    metrics.RecordGauge{Name: "temperature", Value: math.NaN()},
			reason: metrics.ReasonInvalidValue,
		},
		{
			name:   "histogram infinity",
			eff:    metrics.ObserveHistogram{Name: "latency", Value: math.Inf(1)},
			reason: metrics.ReasonInvalidValue,
		},
		{
			name:   "kind checked before value",
			eff:    metrics.ObserveHistogram{Name: "temperature", Value: math.Inf(1)},
			reason: metrics.ReasonInvalidKind,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			requireFailed(t, record(t, it, tc.eff), tc.reason)
		})
	}
}

func TestInterpreter_RejectedRecordLeavesNoTrace(t *testing.T) {
	it, _ := newRegistered(t, counterSpec())

	record(t, it, metrics.IncrementCounter{
		Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: -5,
	})

	out, err := it.Handle(context.Background(), metrics.QueryMetrics{Name: "requests_total"})
	require.NoError(t, err)
	assert.Empty(t, out.([]metrics.Sample))
}

func TestInterpreter_RegisterIdempotentAndConflicting(t *testing.T) {
	it, _ := newRegistered(t, counterSpec())

	// Same declaration again is fine.
	out, err := it.Handle(context.Background(), metrics.RegisterMetrics{Specs: []metrics.Spec{counterSpec()}})
	require.NoError(t, err)
	outcomes := out.([]metrics.RecordOutcome)
	require.Len(t, outcomes, 1)
	assert.IsType(t, metrics.MetricRecorded{}, outcomes[0])

	// Same name, different shape is rejected in the outcome.
	conflicting := counterSpec()
	conflicting.Kind = metrics.KindGauge
	conflicting.LabelKeys = nil
	out, err = it.Handle(context.Background(), metrics.RegisterMetrics{Specs: []metrics.Spec{conflicting}})
	require.NoError(t, err)
	outcomes = out.([]metrics.RecordOutcome)
	require.Len(t, outcomes, 1)
	requireFailed(t, outcomes[0], metrics.ReasonDuplicateMetric)
}

func TestInterpreter_MalformedSpecs(t *testing.T) {
	col := metrics.NewMemoryCollector()
	it := metrics.NewInterpreter(col)

	specs := []metrics.Spec{
		{Name: "", Kind: metrics.KindCounter},
		{Name: "bad_kind", Kind: "meter"},
		{Name: "bad_buckets", Kind: metrics.KindHistogram, Buckets: []float64{5, 1}},
		{Name: "bad_quantiles", Kind: metrics.KindSummary, Quantiles: []float64{1.5}},
		{Name: "buckets_on_counter", Kind: metrics.KindCounter, Buckets: []float64{1}},
		{Name: "dup_labels", Kind: metrics.KindCounter, LabelKeys: []string{"a", "a"}},
		{Name: "fine", Kind: metrics.KindCounter},
	}

	out, err := it.Handle(context.Background(), metrics.RegisterMetrics{Specs: specs})
	require.NoError(t, err)
	outcomes := out.([]metrics.RecordOutcome)
	require.Len(t, outcomes, len(specs))

	for i := 0; i < 6; i++ {
		requireFailed(t, outcomes[i], metrics.ReasonInvalidSpec)
	}
	// Outcomes come back in spec order, and one bad spec doesn't block the rest.
	assert.Equal(t, metrics.MetricRecorded{Name: "fine", Kind: metrics.KindCounter}, outcomes[6])
}

func TestInterpreter_ResetWipesValuesAndRegistry(t *testing.T) {
	it, _ := newRegistered(t, counterSpec())
	record(t, it, metrics.IncrementCounter{
		Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: 1,
	})

	out, err := it.Handle(context.Background(), metrics.ResetMetrics{})
	require.NoError(t, err)
	assert.Equal(t, metrics.MetricsReset{}, out)

	// The registry is gone too, not just the values.
	requireFailed(t, record(t, it, metrics.IncrementCounter{
		Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: 1,
	}), metrics.ReasonMetricNotRegistered)

	// The wiped name reads as empty, not as an error.
	out, err = it.Handle(context.Background(), metrics.QueryMetrics{Name: "requests_total"})
	require.NoError(t, err)
	assert.Empty(t, out.([]metrics.Sample))

	out, err = it.Handle(context.Background(), metrics.QueryMetrics{})
	require.NoError(t, err)
	assert.Empty(t, out.([]metrics.Sample))
}

func TestInterpreter_QueryUnknownMetricIsEmpty(t *testing.T) {
	it, _ := newRegistered(t, counterSpec())

	out, err := it.Handle(context.Background(), metrics.QueryMetrics{Name: "nope"})
	require.NoError(t, err)
	assert.Empty(t, out.([]metrics.Sample))
}

type flakyCollector struct {
	metrics.Collector
	writeErr error
}

func (f *flakyCollector) IncrementCounter(ctx context.Context, name string, labels map[string]string, delta float64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Collector.IncrementCounter(ctx, name, labels, delta)
}

func TestInterpreter_CollectorFailureBecomesOutcome(t *testing.T) {
	col := metrics.NewMemoryCollector()
	flaky := &flakyCollector{Collector: col}
	it := metrics.NewInterpreter(flaky)

	out, err := it.Handle(context.Background(), metrics.RegisterMetrics{Specs: []metrics.Spec{counterSpec()}})
	require.NoError(t, err)
	require.IsType(t, metrics.MetricRecorded{}, out.([]metrics.RecordOutcome)[0])

	flaky.writeErr = fmt.Errorf("collector down")
	outcome := record(t, it, metrics.IncrementCounter{
		Name: "requests_total", Labels: map[string]string{"route": "/"}, Value: 1,
	})
	failed := requireFailed(t, outcome, metrics.ReasonCollectorError)
	assert.Contains(t, failed.Detail, "collector down")
}

func TestMetrics_EndToEndThroughRunner(t *testing.T) {
	ctx := context.Background()
	col := metrics.NewMemoryCollector()
	comp := effects.MustComposite(effects.Registration{
		Family:      metrics.Family,
		Interpreter: metrics.NewInterpreter(col),
	})

	prog := func(ctx context.Context, sc *effects.Scope) (float64, error) {
		outcomes, err := effects.Perform[[]metrics.RecordOutcome](ctx, sc, metrics.RegisterMetrics{
			Specs: []metrics.Spec{{
				Name: "jobs_done", Kind: metrics.KindCounter, LabelKeys: []string{"queue"},
			}},
		})
		if err != nil {
			return 0, err
		}
		if failed, ok := outcomes[0].(metrics.MetricRecordingFailed); ok {
			return 0, fmt.Errorf("registration rejected: %s", failed.Detail)
		}
		for i := 0; i < 3; i++ {
			if _, err := effects.Perform[metrics.RecordOutcome](ctx, sc, metrics.IncrementCounter{
				Name: "jobs_done", Labels: map[string]string{"queue": "default"}, Value: 1,
			}); err != nil {
				return 0, err
			}
		}
		samples, err := effects.Perform[[]metrics.Sample](ctx, sc, metrics.QueryMetrics{Name: "jobs_done"})
		if err != nil {
			return 0, err
		}
		return samples[0].Value, nil
	}

	got, err := effects.Run(ctx, prog, comp)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}
