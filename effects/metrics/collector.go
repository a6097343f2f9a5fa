package metrics

import (
	"context"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Collector is the narrow storage protocol the metrics interpreter records
// through. Implementations store and retrieve; validation against registered
// specs happens in the interpreter, so every collector behaves the same way.
//
// Collector errors are infrastructure failures. The interpreter folds them
// into collector_error outcomes for recording effects and passes them
// through for Query and Reset. A Query for a name with no recorded series
// returns an empty snapshot, not an error, so a registry wiped by Reset
// reads as empty.
type Collector interface {
	Register(ctx context.Context, spec Spec) error
	LookupSpec(ctx context.Context, name string) (Spec, bool, error)
	IncrementCounter(ctx context.Context, name string, labels map[string]string, delta float64) error
	RecordGauge(ctx context.Context, name string, labels map[string]string, value float64) error
	ObserveHistogram(ctx context.Context, name string, labels map[string]string, value float64) error
	RecordSummary(ctx context.Context, name string, labels map[string]string, value float64) error
	Query(ctx context.Context, name string) ([]Sample, error)
	Reset(ctx context.Context) error
}

var _ effects.TimeBounded = Sample{}

// Sample is one series snapshot at query time. Which fields are populated
// depends on the kind: counters and gauges carry Value, histograms carry
// Count/Sum/Buckets, summaries carry Count/Sum/Quantiles.
type Sample struct {
	Name   string
	Kind   Kind
	Labels map[string]string

	Value float64
	Count uint64
	Sum   float64
	// Buckets maps each declared upper bound to its cumulative count.
	Buckets map[float64]uint64
	// Quantiles maps each declared quantile to its current estimate.
	Quantiles map[float64]float64

	// Window spans the series' first through last observation.
	Window effects.TimeSpan
}

// TimeSpan returns the observation window.
func (s Sample) TimeSpan() effects.TimeSpan { return s.Window }
