package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// SampleLoopService runs a SampleLoop in the background.
type SampleLoopService struct {
	Loop   *SampleLoop
	Logger zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
	err    error
}

// NewSampleLoopService wraps loop in a startable service.
func NewSampleLoopService(loop *SampleLoop, logger zerolog.Logger) *SampleLoopService {
	return &SampleLoopService{
		Loop:   loop,
		Logger: logger,
	}
}

// Start launches the loop in a separate goroutine.
func (s *SampleLoopService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		s.Logger.Warn().Msg("SampleLoopService is already running")
		return errors.New("sample loop service is already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	s.err = nil

	s.wg.Add(1)
	go func(ctx context.Context, done chan struct{}) {
		defer s.wg.Done()
		defer close(done)
		err := s.Loop.Run(ctx)

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}(s.ctx, s.done)

	s.Logger.Info().Msg("SampleLoopService started successfully")
	return nil
}

// Done is closed when the loop returns, either after Stop or on a fatal error.
func (s *SampleLoopService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error that ended the loop, nil after a clean stop.
func (s *SampleLoopService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop cancels the loop and waits for the current tick to finish.
func (s *SampleLoopService) Stop() error {
	s.mu.Lock()
	if s.ctx == nil {
		s.mu.Unlock()
		s.Logger.Warn().Msg("SampleLoopService is not running")
		return errors.New("sample loop service is not running")
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	// cleared only after Wait so a concurrent Start still sees a running service
	s.mu.Lock()
	s.ctx = nil
	s.cancel = nil
	s.mu.Unlock()

	s.Logger.Info().Msg("SampleLoopService stopped successfully")
	return nil
}
