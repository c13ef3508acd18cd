package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
)

// Registry holds metrics keyed by name with get-or-create semantics.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

// DefaultRegistry is the process-wide registry backing standard.go.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// getOrCreate implements the read-lock fast path and write-lock slow path
// shared by Counter, Gauge and Histogram.
func getOrCreate[M any](r *Registry, m map[string]*M, name string, mk func(string) *M) *M {
	r.mu.RLock()
	v, ok := m[name]
	r.mu.RUnlock()
	if ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok = m[name]; ok {
		return v
	}
	v = mk(name)
	m[name] = v
	return v
}

// Counter returns the Counter registered under name, creating it if needed.
func (r *Registry) Counter(name string) *Counter {
	return getOrCreate(r, r.counters, name, NewCounter)
}

// Gauge returns the Gauge registered under name, creating it if needed.
func (r *Registry) Gauge(name string) *Gauge {
	return getOrCreate(r, r.gauges, name, NewGauge)
}

// Histogram returns the Histogram registered under name, creating it if
// needed.
func (r *Registry) Histogram(name string) *Histogram {
	return getOrCreate(r, r.histograms, name, NewHistogram)
}

// Snapshot returns a point-in-time copy of every metric. Counters and
// gauges map to int64, histograms to HistogramSnapshot.
func (r *Registry) Snapshot() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]interface{}, len(r.counters)+len(r.gauges)+len(r.histograms))
	for name, c := range r.counters {
		snap[name] = c.Value()
	}
	for name, g := range r.gauges {
		snap[name] = g.Value()
	}
	for name, h := range r.histograms {
		snap[name] = h.Snapshot()
	}
	return snap
}

// WriteText writes every metric in Prometheus text exposition format.
// Dots and dashes in names become underscores and namespace, if set, is
// prepended. Output is sorted by name.
func (r *Registry) WriteText(w io.Writer, namespace string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	for _, name := range sortedKeys(r.counters) {
		pn := promName(namespace, name)
		writeHeader(&b, pn, "counter", name)
		fmt.Fprintf(&b, "%s %d\n", pn, r.counters[name].Value())
	}
	for _, name := range sortedKeys(r.gauges) {
		pn := promName(namespace, name)
		writeHeader(&b, pn, "gauge", name)
		fmt.Fprintf(&b, "%s %d\n", pn, r.gauges[name].Value())
	}
	for _, name := range sortedKeys(r.histograms) {
		pn := promName(namespace, name)
		s := r.histograms[name].Snapshot()
		writeHeader(&b, pn, "summary", name)
		fmt.Fprintf(&b, "%s_count %d\n", pn, s.Count)
		fmt.Fprintf(&b, "%s_sum %s\n", pn, formatFloat(s.Sum))
		if s.Count > 0 {
			fmt.Fprintf(&b, "%s_min %s\n", pn, formatFloat(s.Min))
			fmt.Fprintf(&b, "%s_max %s\n", pn, formatFloat(s.Max))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func promName(namespace, name string) string {
	s := strings.NewReplacer(".", "_", "-", "_").Replace(name)
	if namespace != "" {
		return namespace + "_" + s
	}
	return s
}

func writeHeader(b *strings.Builder, name, kind, help string) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, kind)
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
	return fmt.Sprintf("%g", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
