package metrics_collectors

import (
	"context"
	"fmt"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"
)

// GopsutilCollector reads per-process CPU and memory usage through gopsutil
// instead of spawning ps.
type GopsutilCollector struct {
	Logger   zerolog.Logger
	Counters *stats.Counters

	// list overrides the process table lookup, nil means gopsutil.
	list func(ctx context.Context) ([]listedProcess, error)
}

// processHandle is the part of *process.Process a sample is read from.
type processHandle interface {
	PpidWithContext(ctx context.Context) (int32, error)
	MemoryPercentWithContext(ctx context.Context) (float32, error)
	CPUPercentWithContext(ctx context.Context) (float64, error)
	CmdlineWithContext(ctx context.Context) (string, error)
	NameWithContext(ctx context.Context) (string, error)
}

type listedProcess struct {
	pid    int32
	handle processHandle
}

func listProcesses(ctx context.Context) ([]listedProcess, error) {
	list := g.list
	if list == nil {
		list = listProcesses
	}
	procs, err := list(ctx)
	if err != nil {
		return nil, err
	}
	listed := make([]listedProcess, 0, len(procs))
	for _, proc := range procs {
		listed = append(listed, listedProcess{pid: proc.Pid, handle: proc})
	}
	return listed, nil
}

func (g *GopsutilCollector) Name() string {
	return constants.SourceGopsutil
}

func (g *GopsutilCollector) Collect(ctx context.Context) ([]models.ProcessSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, &ExecutionError{Command: "gopsutil process list", Err: err}
	}
	if len(procs) == 0 {
		return nil, &ExecutionError{Command: "gopsutil process list", Err: ErrNoOutput}
	}

	samples := make([]models.ProcessSample, 0, len(procs))
	skipped := 0
	for _, proc := range procs {
		sample, err := sampleProcess(ctx, proc)
		if err != nil {
			// processes routinely exit between listing and inspection
			g.Logger.Debug().Err(err).Int32("pid", proc.pid).Msg("Skipping process")
			skipped++
			continue
		}
		samples = append(samples, sample)
	}

	if skipped > 0 && g.Counters != nil {
		g.Counters.Add(constants.CounterSkippedLines, uint64(skipped))
	}

	g.Logger.Debug().Int("samples", len(samples)).Int("skipped", skipped).Msg("Process metrics collection completed successfully")
	return samples, nil
}

func sampleProcess(ctx context.Context, listed listedProcess) (models.ProcessSample, error) {
	proc := listed.handle
	ppid, err := proc.PpidWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, fmt.Errorf("ppid: %w", err)
	}
	mem, err := proc.MemoryPercentWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, fmt.Errorf("memory percent: %w", err)
	}
	cpu, err := proc.CPUPercentWithContext(ctx)
	if err != nil {
		return models.ProcessSample{}, fmt.Errorf("cpu percent: %w", err)
	}

	cmd, err := proc.CmdlineWithContext(ctx)
	if err != nil || cmd == "" {
		// kernel threads have no command line
		if cmd, err = proc.NameWithContext(ctx); err != nil {
			return models.ProcessSample{}, fmt.Errorf("name: %w", err)
		}
	}

	return models.ProcessSample{
		PID:        int(listed.pid),
		PPID:       int(ppid),
		MemPercent: float64(mem),
		CPUPercent: cpu,
		Command:    cmd,
	}, nil
}

func (g *GopsutilCollector) Description() string {
	return "Per-process CPU and memory percentages read through gopsutil."
}
