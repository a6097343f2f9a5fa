package metrics

// FailureReason classifies why a recording was rejected.
type FailureReason string

const (
	// ReasonMetricNotRegistered: the metric name was never registered.
	ReasonMetricNotRegistered FailureReason = "metric_not_registered"
	// ReasonInvalidValue: the value is unusable for the kind, e.g. a
	// negative counter delta or a NaN gauge.
	ReasonInvalidValue FailureReason = "invalid_value"
	// ReasonInvalidLabels: the label keys differ from the registered set.
	ReasonInvalidLabels FailureReason = "invalid_labels"
	// ReasonInvalidKind: the record effect does not match the registered
	// kind, e.g. incrementing a gauge.
	ReasonInvalidKind FailureReason = "invalid_kind"
	// ReasonInvalidSpec: the spec itself is malformed.
	ReasonInvalidSpec FailureReason = "invalid_spec"
	// ReasonDuplicateMetric: a conflicting spec is already registered under
	// the name.
	ReasonDuplicateMetric FailureReason = "duplicate_metric"
	// ReasonCollectorError: the backing collector failed.
	ReasonCollectorError FailureReason = "collector_error"
)

var (
	_ RecordOutcome = MetricRecorded{}
	_ RecordOutcome = MetricRecordingFailed{}
)

// RecordOutcome is a sealed interface for recording outcomes: a record
// either landed or was rejected for a classified reason. Rejections are
// modeled values, not errors; metrics recording must never take a caller
// down.
type RecordOutcome interface {
	recordOutcome()
}

// MetricRecorded reports a record that landed.
type MetricRecorded struct {
	Name string
	Kind Kind
}

// recordOutcome prevents external packages from adding outcome variants.
func (MetricRecorded) recordOutcome() {}

// MetricRecordingFailed reports a rejected record with the reason and a
// human-readable detail.
type MetricRecordingFailed struct {
	Name   string
	Reason FailureReason
	Detail string
}

func (MetricRecordingFailed) recordOutcome() {}

// MetricsReset acknowledges a ResetMetrics effect.
type MetricsReset struct{}
