package stats

import (
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Counters is a set of monotonically increasing named counters. The sampling
// loop writes them and the stats reporter reads them from another goroutine.
type Counters struct {
	values cmap.ConcurrentMap[string, uint64]
}

// NewCounters creates an empty counter set.
func NewCounters() *Counters {
	return &Counters{values: cmap.New[uint64]()}
}

// Add increments the named counter by delta.
func (c *Counters) Add(name string, delta uint64) {
	c.values.Upsert(name, delta, func(exists bool, current, added uint64) uint64 {
		if !exists {
			return added
		}
		return current + added
	})
}

// Inc increments the named counter by one.
func (c *Counters) Inc(name string) {
	c.Add(name, 1)
}

// Get returns the current value of the named counter, zero if never set.
func (c *Counters) Get(name string) uint64 {
	v, _ := c.values.Get(name)
	return v
}

// Snapshot returns a copy of all counters.
func (c *Counters) Snapshot() map[string]uint64 {
	return c.values.Items()
}
