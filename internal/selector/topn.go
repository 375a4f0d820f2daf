// Package selector ranks process samples within a single tick.
package selector

import (
	"sort"

	"github.com/benmeehan/procstat-agent/internal/models"
)

// TopN returns up to n samples ordered by metric, highest first. Samples with
// equal values keep their input order. The input slice is left untouched.
func TopN(samples []models.ProcessSample, metric models.Metric, n int) ([]models.ProcessSample, error) {
	if n <= 0 || len(samples) == 0 {
		return []models.ProcessSample{}, nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		v, err := s.Value(metric)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	idx := make([]int, len(samples))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	if n > len(idx) {
		n = len(idx)
	}
	ranked := make([]models.ProcessSample, n)
	for i := 0; i < n; i++ {
		ranked[i] = samples[idx[i]]
	}
	return ranked, nil
}
