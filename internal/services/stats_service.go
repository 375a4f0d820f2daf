package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/rs/zerolog"
)

// StatsReporterService periodically logs the agent's counters.
type StatsReporterService struct {
	Interval time.Duration
	Counters *stats.Counters
	Logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStatsReporterService initializes a new StatsReporterService.
func NewStatsReporterService(interval time.Duration, counters *stats.Counters, logger zerolog.Logger) *StatsReporterService {
	return &StatsReporterService{
		Interval: interval,
		Counters: counters,
		Logger:   logger,
	}
}

// Start launches the report loop in a separate goroutine.
func (r *StatsReporterService) Start() error {
	if r.ctx != nil {
		r.Logger.Warn().Msg("StatsReporterService is already running")
		return errors.New("stats reporter service is already running")
	}
	if r.Interval <= 0 {
		return errors.New("stats reporter interval must be positive")
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runReportLoop()
	}()

	r.Logger.Info().Dur("interval", r.Interval).Msg("StatsReporterService started successfully")
	return nil
}

// Stop gracefully stops the reporter.
func (r *StatsReporterService) Stop() error {
	if r.ctx == nil {
		r.Logger.Warn().Msg("StatsReporterService is not running")
		return errors.New("stats reporter service is not running")
	}

	r.cancel()
	r.wg.Wait()

	r.ctx = nil
	r.cancel = nil

	r.Logger.Info().Msg("StatsReporterService stopped successfully")
	return nil
}

// Report logs the current counters once.
func (r *StatsReporterService) Report() {
	event := r.Logger.Info()
	for name, value := range r.Counters.Snapshot() {
		event = event.Uint64(name, value)
	}
	event.Msg("Agent counters")
}

func (r *StatsReporterService) runReportLoop() {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Report()
		case <-r.ctx.Done():
			r.Report()
			return
		}
	}
}
