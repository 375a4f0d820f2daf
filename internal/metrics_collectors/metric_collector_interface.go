package metrics_collectors

import (
	"context"

	"github.com/benmeehan/procstat-agent/internal/models"
)

// ProcessCollector produces one snapshot of per-process resource usage.
type ProcessCollector interface {
	Name() string                                                // Name of the source (e.g., "ps", "gopsutil")
	Collect(ctx context.Context) ([]models.ProcessSample, error) // Take a snapshot of all processes
	Description() string                                         // Description of the source
}
