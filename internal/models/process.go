package models

import "fmt"

// Metric names a per-process resource measurement.
type Metric string

const (
	MetricCPU Metric = "cpu"
	MetricMem Metric = "mem"
)

// ProcessSample is one process observation taken during a single tick.
type ProcessSample struct {
	PID        int     `json:"pid"`
	PPID       int     `json:"ppid"`
	MemPercent float64 `json:"mem"`
	CPUPercent float64 `json:"cpu"`
	Command    string  `json:"proc"`
}

// Value returns the sample's magnitude for the given metric.
func (s ProcessSample) Value(metric Metric) (float64, error) {
	switch metric {
	case MetricCPU:
		return s.CPUPercent, nil
	case MetricMem:
		return s.MemPercent, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
}
