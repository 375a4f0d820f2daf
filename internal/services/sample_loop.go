package services

import (
	"context"
	"errors"
	"time"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/metrics_collectors"
	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/internal/points"
	"github.com/benmeehan/procstat-agent/internal/selector"
	"github.com/benmeehan/procstat-agent/internal/sinks"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/rs/zerolog"
)

// SampleLoop samples processes, ranks them and writes the top entries to a
// sink once per interval. Ticks never overlap.
type SampleLoop struct {
	collector    metrics_collectors.ProcessCollector
	sink         sinks.Sink
	hostname     string
	interval     time.Duration
	cpuProcCount int
	memProcCount int
	counters     *stats.Counters
	logger       zerolog.Logger
	now          func() time.Time
}

// NewSampleLoop creates a loop. hostname is attached unchanged to every point.
func NewSampleLoop(collector metrics_collectors.ProcessCollector, sink sinks.Sink, hostname string,
	interval time.Duration, cpuProcCount, memProcCount int, counters *stats.Counters, logger zerolog.Logger) *SampleLoop {
	if counters == nil {
		counters = stats.NewCounters()
	}

	return &SampleLoop{
		collector:    collector,
		sink:         sink,
		hostname:     hostname,
		interval:     interval,
		cpuProcCount: cpuProcCount,
		memProcCount: memProcCount,
		counters:     counters,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the time source used to stamp points.
func (l *SampleLoop) WithClock(now func() time.Time) *SampleLoop {
	l.now = now
	return l
}

// Run ticks until ctx is cancelled, which returns nil. Only a configuration
// error ends the loop early; sampling and write failures just end their tick.
func (l *SampleLoop) Run(ctx context.Context) error {
	l.logger.Info().
		Str("source", l.collector.Name()).
		Dur("interval", l.interval).
		Int("cpu_proc_count", l.cpuProcCount).
		Int("mem_proc_count", l.memProcCount).
		Msg("Sample loop started")

	for {
		if ctx.Err() != nil {
			l.logger.Info().Msg("Sample loop stopped")
			return nil
		}

		if err := l.Tick(ctx); err != nil {
			l.logger.Error().Err(err).Msg("Sample loop aborted")
			return err
		}

		timer := time.NewTimer(l.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			l.logger.Info().Msg("Sample loop stopped")
			return nil
		}
	}
}

// Tick runs one sample, select and emit pass. It returns an error only for
// configuration errors.
func (l *SampleLoop) Tick(ctx context.Context) error {
	l.counters.Inc(constants.CounterTicks)

	samples, err := l.collector.Collect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		l.counters.Inc(constants.CounterSampleErrors)
		var execErr *metrics_collectors.ExecutionError
		if errors.As(err, &execErr) {
			l.logger.Error().Err(err).Str("command", execErr.Command).Msg("Failed to sample processes")
		} else {
			l.logger.Error().Err(err).Msg("Failed to sample processes")
		}
		return nil
	}

	batch, err := l.BuildBatch(samples, l.now())
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		l.logger.Debug().Msg("No processes to report")
		return nil
	}

	if err := l.sink.WritePoints(ctx, batch); err != nil {
		l.counters.Inc(constants.CounterWriteErrors)
		l.logger.Error().Err(err).Int("points", len(batch)).Msg("Failed to write points")
		return nil
	}

	l.counters.Add(constants.CounterPointsWritten, uint64(len(batch)))
	l.logger.Debug().Int("samples", len(samples)).Int("points", len(batch)).Msg("Points written")
	return nil
}

// BuildBatch selects the top cpu and mem consumers and turns them into points
// sharing the timestamp now. cpu points come first.
func (l *SampleLoop) BuildBatch(samples []models.ProcessSample, now time.Time) ([]models.MetricPoint, error) {
	batch := make([]models.MetricPoint, 0, l.cpuProcCount+l.memProcCount)

	for _, sel := range []struct {
		metric models.Metric
		count  int
	}{
		{models.MetricCPU, l.cpuProcCount},
		{models.MetricMem, l.memProcCount},
	} {
		top, err := selector.TopN(samples, sel.metric, sel.count)
		if err != nil {
			return nil, &points.ConfigurationError{Reason: err.Error()}
		}
		for _, sample := range top {
			p, err := points.Build(sample, sel.metric, l.hostname, now)
			if err != nil {
				return nil, err
			}
			batch = append(batch, p)
		}
	}

	return batch, nil
}
