package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/on-the-ground/interpret_ive_go/effects"
)

// series is one (metric, label set) value stream.
type series struct {
	labels map[string]string

	value        float64
	count        uint64
	sum          float64
	bucketCounts []uint64
	observations []float64

	first time.Time
	last  time.Time
}

// MemoryCollector is a process-local Collector. Series are keyed by an
// xxhash fingerprint of the sorted label pairs, so distinct label sets never
// collide into one stream. Safe for concurrent use.
type MemoryCollector struct {
	mu     sync.RWMutex
	specs  map[string]Spec
	series map[string]map[uint64]*series
}

var _ Collector = (*MemoryCollector)(nil)

// NewMemoryCollector returns an empty in-memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		specs:  make(map[string]Spec),
		series: make(map[string]map[uint64]*series),
	}
}

// labelSeparator keeps "a"+"bc" and "ab"+"c" from hashing alike.
const labelSeparator = "\xff"

func fingerprint(labels map[string]string) uint64 {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.WriteString(labelSeparator)
		_, _ = d.WriteString(labels[k])
		_, _ = d.WriteString(labelSeparator)
	}
	return d.Sum64()
}

func signature(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, ",")
}

func (c *MemoryCollector) Register(_ context.Context, spec Spec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specs[spec.Name] = spec
	return nil
}

func (c *MemoryCollector) LookupSpec(_ context.Context, name string) (Spec, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	spec, ok := c.specs[name]
	return spec, ok, nil
}

func (c *MemoryCollector) IncrementCounter(_ context.Context, name string, labels map[string]string, delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.ensureSeries(name, labels)
	if err != nil {
		return err
	}
	s.value += delta
	s.touch()
	return nil
}

func (c *MemoryCollector) RecordGauge(_ context.Context, name string, labels map[string]string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.ensureSeries(name, labels)
	if err != nil {
		return err
	}
	s.value = value
	s.touch()
	return nil
}

func (c *MemoryCollector) ObserveHistogram(_ context.Context, name string, labels map[string]string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.ensureSeries(name, labels)
	if err != nil {
		return err
	}
	spec := c.specs[name]
	for i, upper := range spec.Buckets {
		if value <= upper {
			s.bucketCounts[i]++
			break
		}
	}
	s.count++
	s.sum += value
	s.touch()
	return nil
}

func (c *MemoryCollector) RecordSummary(_ context.Context, name string, labels map[string]string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.ensureSeries(name, labels)
	if err != nil {
		return err
	}
	s.observations = append(s.observations, value)
	s.count++
	s.sum += value
	s.touch()
	return nil
}

func (c *MemoryCollector) Query(_ context.Context, name string) ([]Sample, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.series))
	if name != "" {
		// Unknown and wiped names read as empty, never as an error.
		if _, ok := c.series[name]; ok {
			names = append(names, name)
		}
	} else {
		for n := range c.series {
			names = append(names, n)
		}
		sort.Strings(names)
	}

	var samples []Sample
	for _, n := range names {
		spec := c.specs[n]
		streams := make([]*series, 0, len(c.series[n]))
		for _, s := range c.series[n] {
			streams = append(streams, s)
		}
		sort.Slice(streams, func(i, j int) bool {
			return signature(streams[i].labels) < signature(streams[j].labels)
		})
		for _, s := range streams {
			samples = append(samples, snapshot(spec, s))
		}
	}
	return samples, nil
}

func (c *MemoryCollector) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specs = make(map[string]Spec)
	c.series = make(map[string]map[uint64]*series)
	return nil
}

// ensureSeries returns the stream for (name, labels), creating it on first
// record. Callers must hold the write lock.
func (c *MemoryCollector) ensureSeries(name string, labels map[string]string) (*series, error) {
	spec, ok := c.specs[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	streams, ok := c.series[name]
	if !ok {
		streams = make(map[uint64]*series)
		c.series[name] = streams
	}
	fp := fingerprint(labels)
	s, ok := streams[fp]
	if !ok {
		copied := make(map[string]string, len(labels))
		for k, v := range labels {
			copied[k] = v
		}
		s = &series{
			labels: copied,
			first:  time.Now(),
		}
		if spec.Kind == KindHistogram {
			s.bucketCounts = make([]uint64, len(spec.Buckets))
		}
		streams[fp] = s
	}
	return s, nil
}

func (s *series) touch() {
	s.last = time.Now()
}

func snapshot(spec Spec, s *series) Sample {
	labels := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		labels[k] = v
	}
	sample := Sample{
		Name:   spec.Name,
		Kind:   spec.Kind,
		Labels: labels,
		Window: effects.NewTimeSpan(s.first, s.last),
	}
	switch spec.Kind {
	case KindCounter, KindGauge:
		sample.Value = s.value
	case KindHistogram:
		sample.Count = s.count
		sample.Sum = s.sum
		sample.Buckets = make(map[float64]uint64, len(spec.Buckets))
		cumulative := uint64(0)
		for i, upper := range spec.Buckets {
			cumulative += s.bucketCounts[i]
			sample.Buckets[upper] = cumulative
		}
	case KindSummary:
		sample.Count = s.count
		sample.Sum = s.sum
		sample.Quantiles = make(map[float64]float64, len(spec.Quantiles))
		sorted := make([]float64, len(s.observations))
		copy(sorted, s.observations)
		sort.Float64s(sorted)
		for _, q := range spec.Quantiles {
			sample.Quantiles[q] = quantile(sorted, q)
		}
	}
	return sample
}

// quantile reads q from pre-sorted observations with linear interpolation
// between adjacent ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
