package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/rs/zerolog"
)

// LazySink creates the underlying sink and prepares it on the first write,
// then reuses it for the lifetime of the process. If creation or preparation
// fails, the next write tries again.
type LazySink struct {
	factory Factory
	logger  zerolog.Logger

	mu   sync.Mutex
	sink Sink
}

// NewLazySink wraps factory without calling it.
func NewLazySink(factory Factory, logger zerolog.Logger) *LazySink {
	return &LazySink{factory: factory, logger: logger}
}

func (l *LazySink) get(ctx context.Context) (Sink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink != nil {
		return l.sink, nil
	}

	s, err := l.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink: %w", err)
	}
	if err := s.EnsureReady(ctx); err != nil {
		if cerr := s.Close(); cerr != nil {
			l.logger.Warn().Err(cerr).Msg("Failed to close sink after failed setup")
		}
		return nil, fmt.Errorf("failed to prepare sink: %w", err)
	}

	l.logger.Info().Msg("Sink initialized")
	l.sink = s
	return s, nil
}

// EnsureReady initializes the underlying sink if it is not ready yet.
func (l *LazySink) EnsureReady(ctx context.Context) error {
	_, err := l.get(ctx)
	return err
}

// WritePoints initializes the sink on first use and forwards the batch.
func (l *LazySink) WritePoints(ctx context.Context, points []models.MetricPoint) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.WritePoints(ctx, points)
}

// Close closes the underlying sink if it was ever created.
func (l *LazySink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil {
		return nil
	}
	err := l.sink.Close()
	l.sink = nil
	return err
}
