package metrics

import (
	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Variant tags of the metrics family.
const (
	effectRegister  = "metrics.register"
	effectIncrement = "metrics.increment_counter"
	effectGauge     = "metrics.record_gauge"
	effectHistogram = "metrics.observe_histogram"
	effectSummary   = "metrics.record_summary"
	effectQuery     = "metrics.query"
	effectReset     = "metrics.reset"
)

// Family is the closed metrics effect family.
var Family = effects.NewFamily("metrics",
	effectRegister,
	effectIncrement,
	effectGauge,
	effectHistogram,
	effectSummary,
	effectQuery,
	effectReset,
)

// Kind is the metric kind a spec declares and every record against it must
// match.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
)

// Spec declares one metric: its name, kind, and the exact label keys every
// record must carry. Histograms additionally declare ascending bucket upper
// bounds, summaries the quantiles to report.
type Spec struct {
	Name      string
	Kind      Kind
	Help      string
	LabelKeys []string
	Buckets   []float64
	Quantiles []float64
}

// DefaultBuckets are the histogram bounds used when a spec declares none.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// DefaultQuantiles are the summary quantiles used when a spec declares none.
var DefaultQuantiles = []float64{0.5, 0.9, 0.99}

var (
	_ Effect = RegisterMetrics{}
	_ Effect = IncrementCounter{}
	_ Effect = RecordGauge{}
	_ Effect = ObserveHistogram{}
	_ Effect = RecordSummary{}
	_ Effect = QueryMetrics{}
	_ Effect = ResetMetrics{}
)

// Effect is a sealed interface for metrics operations.
// Only the predefined effect types in this package can implement it.
type Effect interface {
	effects.Effect
	metricsEffect()
}

// RegisterMetrics declares metrics ahead of recording. Registering an
// identical spec again is fine; a conflicting redeclaration is rejected in
// the returned outcomes, never as an error.
type RegisterMetrics struct {
	Specs []Spec
}

func (RegisterMetrics) EffectName() string { return effectRegister }

// metricsEffect prevents external packages from adding variants.
func (RegisterMetrics) metricsEffect() {}

// IncrementCounter adds Value to a counter series. Value must not be
// negative; counters only go up.
type IncrementCounter struct {
	Name   string
	Labels map[string]string
	Value  float64
}

func (IncrementCounter) EffectName() string { return effectIncrement }
func (IncrementCounter) metricsEffect()     {}

// RecordGauge sets a gauge series to Value.
type RecordGauge struct {
	Name   string
	Labels map[string]string
	Value  float64
}

func (RecordGauge) EffectName() string { return effectGauge }
func (RecordGauge) metricsEffect()     {}

// ObserveHistogram appends one observation to a histogram series.
type ObserveHistogram struct {
	Name   string
	Labels map[string]string
	Value  float64
}

func (ObserveHistogram) EffectName() string { return effectHistogram }
func (ObserveHistogram) metricsEffect()     {}

// RecordSummary appends one observation to a summary series.
type RecordSummary struct {
	Name   string
	Labels map[string]string
	Value  float64
}

func (RecordSummary) EffectName() string { return effectSummary }
func (RecordSummary) metricsEffect()     {}

// QueryMetrics reads current samples. An empty Name selects every metric.
type QueryMetrics struct {
	Name string
}

func (QueryMetrics) EffectName() string { return effectQuery }
func (QueryMetrics) metricsEffect()     {}

// ResetMetrics wipes every recorded value and the registry itself.
type ResetMetrics struct{}

func (ResetMetrics) EffectName() string { return effectReset }
func (ResetMetrics) metricsEffect()     {}
