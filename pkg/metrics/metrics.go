package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Kind is the TYPE written for a metric.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindHistogram Kind = "histogram"
)

// Sample is one exposition line.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Metric is implemented by Counter and Histogram.
type Metric interface {
	Name() string
	Help() string
	Kind() Kind
	Collect() []Sample
}

// atomicFloat is a float64 updated with compare-and-swap.
type atomicFloat struct{ bits atomic.Uint64 }

func (f *atomicFloat) Load() float64 { return math.Float64frombits(f.bits.Load()) }

func (f *atomicFloat) Add(delta float64) {
	for {
		old := f.bits.Load()
		if f.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

// family holds one series per label combination. A wrong number of label
// values panics: label sets are fixed at registration and every caller
// passes them literally.
type family[S any] struct {
	name, help string
	labelNames []string
	newSeries  func() *S

	mu     sync.RWMutex
	series map[string]*S
	labels map[string]map[string]string
}

func (f *family[S]) init(name, help string, labelNames []string, newSeries func() *S) {
	f.name, f.help = name, help
	f.labelNames = labelNames
	f.newSeries = newSeries
	f.series = make(map[string]*S)
	f.labels = make(map[string]map[string]string)
}

func (f *family[S]) get(values []string) *S {
	if len(values) != len(f.labelNames) {
		panic(fmt.Sprintf("metrics: %s takes %d label values, got %d", f.name, len(f.labelNames), len(values)))
	}
	key := strings.Join(values, "\x00")

	f.mu.RLock()
	s, ok := f.series[key]
	f.mu.RUnlock()
	if ok {
		return s
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.series[key]; ok {
		return s
	}
	labels := make(map[string]string, len(values))
	for i, n := range f.labelNames {
		labels[n] = values[i]
	}
	s = f.newSeries()
	f.series[key] = s
	f.labels[key] = labels
	return s
}

// each visits series in label-value order.
func (f *family[S]) each(fn func(labels map[string]string, s *S)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.series))
	for k := range f.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(f.labels[k], f.series[k])
	}
}

func (f *family[S]) Name() string { return f.name }
func (f *family[S]) Help() string { return f.help }

// Counter only goes up.
type Counter struct {
	family[atomicFloat]
}

// CounterSeries is a counter bound to label values.
type CounterSeries struct{ v *atomicFloat }

// Inc adds one.
func (s CounterSeries) Inc() { s.v.Add(1) }

// Add adds delta. Negative deltas are ignored.
func (s CounterSeries) Add(delta float64) {
	if delta > 0 {
		s.v.Add(delta)
	}
}

// With returns the series for values, in label order.
func (c *Counter) With(values ...string) CounterSeries {
	return CounterSeries{v: c.get(values)}
}

// Inc adds one to a counter registered without labels.
func (c *Counter) Inc() { c.With().Inc() }

func (c *Counter) Kind() Kind { return KindCounter }

func (c *Counter) Collect() []Sample {
	var out []Sample
	c.each(func(labels map[string]string, v *atomicFloat) {
		out = append(out, Sample{Name: c.name, Labels: labels, Value: v.Load()})
	})
	return out
}

type histogramSeries struct {
	counts []atomic.Uint64
	sum    atomicFloat
	count  atomic.Uint64
}

// Histogram counts observations into cumulative buckets.
type Histogram struct {
	family[histogramSeries]
	bounds []float64
}

// HistogramSeries is a histogram bound to label values.
type HistogramSeries struct {
	h *Histogram
	s *histogramSeries
}

// Observe records v.
func (o HistogramSeries) Observe(v float64) {
	if i, _ := slices.BinarySearch(o.h.bounds, v); i < len(o.s.counts) {
		o.s.counts[i].Add(1)
	}
	o.s.sum.Add(v)
	o.s.count.Add(1)
}

// With returns the series for values, in label order.
func (h *Histogram) With(values ...string) HistogramSeries {
	return HistogramSeries{h: h, s: h.get(values)}
}

func (h *Histogram) Kind() Kind { return KindHistogram }

func (h *Histogram) Collect() []Sample {
	var out []Sample
	h.each(func(labels map[string]string, s *histogramSeries) {
		var cumulative uint64
		for i, bound := range h.bounds {
			cumulative += s.counts[i].Load()
			le := make(map[string]string, len(labels)+1)
			for k, v := range labels {
				le[k] = v
			}
			le["le"] = formatFloat(bound)
			out = append(out, Sample{Name: h.name + "_bucket", Labels: le, Value: float64(cumulative)})
		}
		out = append(out,
			Sample{Name: h.name + "_sum", Labels: labels, Value: s.sum.Load()},
			Sample{Name: h.name + "_count", Labels: labels, Value: float64(s.count.Load())},
		)
	})
	return out
}

// DurationBuckets suit request latencies in seconds.
var DurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Registry owns a set of uniquely named metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewCounter registers a counter. A duplicate name panics.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{}
	c.init(name, help, labels, func() *atomicFloat { return new(atomicFloat) })
	r.register(c)
	return c
}

// NewHistogram registers a histogram over buckets; +Inf is appended when
// missing. A duplicate name panics.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	bounds := slices.Clone(buckets)
	slices.Sort(bounds)
	if len(bounds) == 0 || !math.IsInf(bounds[len(bounds)-1], 1) {
		bounds = append(bounds, math.Inf(1))
	}
	h := &Histogram{bounds: bounds}
	h.init(name, help, labels, func() *histogramSeries {
		return &histogramSeries{counts: make([]atomic.Uint64, len(bounds))}
	})
	r.register(h)
	return h
}

func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.metrics {
		if existing.Name() == m.Name() {
			panic("metrics: duplicate metric " + m.Name())
		}
	}
	r.metrics = append(r.metrics, m)
}

// WriteTo writes every metric with at least one series.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	r.mu.RLock()
	metrics := slices.Clone(r.metrics)
	r.mu.RUnlock()

	var sb strings.Builder
	for _, m := range metrics {
		samples := m.Collect()
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "# HELP %s %s\n", m.Name(), escape(m.Help(), false))
		fmt.Fprintf(&sb, "# TYPE %s %s\n", m.Name(), m.Kind())
		for _, s := range samples {
			sb.WriteString(s.Name)
			if len(s.Labels) > 0 {
				sb.WriteString("{" + formatLabels(s.Labels) + "}")
			}
			sb.WriteString(" " + formatFloat(s.Value) + "\n")
		}
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Handler serves the registry.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = r.WriteTo(w)
	})
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escape(labels[k], true) + `"`
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escape(s string, quote bool) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	if quote {
		s = strings.ReplaceAll(s, `"`, `\"`)
	}
	return s
}
