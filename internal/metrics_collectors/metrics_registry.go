package metrics_collectors

import "sort"

// MetricsRegistry holds the available process sources keyed by name.
type MetricsRegistry struct {
	collectors map[string]ProcessCollector
}

// NewMetricsRegistry creates a new MetricsRegistry instance.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		collectors: make(map[string]ProcessCollector),
	}
}

// Register adds a process source to the registry, replacing any source with the same name.
func (r *MetricsRegistry) Register(collector ProcessCollector) {
	r.collectors[collector.Name()] = collector
}

// Get returns the source registered under name.
func (r *MetricsRegistry) Get(name string) (ProcessCollector, bool) {
	c, ok := r.collectors[name]
	return c, ok
}

// Names returns the registered source names in sorted order.
func (r *MetricsRegistry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
