package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/internal/services"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/benmeehan/procstat-agent/tests/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSampleLoopService_StartStop(t *testing.T) {
	collector := newCollector(scenarioSamples(), nil)
	sink := new(mocks.MockSink)
	sink.On("WritePoints", mock.Anything, mock.Anything).Return(nil)

	loop := services.NewSampleLoop(collector, sink, "h", 10*time.Millisecond, 10, 10, nil, zerolog.Nop())
	s := services.NewSampleLoopService(loop, zerolog.Nop())

	assert.NoError(t, s.Start())

	err := s.Start()
	assert.Error(t, err)
	assert.Equal(t, "sample loop service is already running", err.Error())

	time.Sleep(30 * time.Millisecond)

	assert.NoError(t, s.Stop())
	<-s.Done()
	assert.NoError(t, s.Err())

	err = s.Stop()
	assert.Error(t, err)
	assert.Equal(t, "sample loop service is not running", err.Error())

	sink.AssertCalled(t, "WritePoints", mock.Anything, mock.Anything)
}

type gatedCollector struct {
	release chan struct{}
}

func (g *gatedCollector) Name() string        { return "gated" }
func (g *gatedCollector) Description() string { return "blocks until released" }

func (g *gatedCollector) Collect(ctx context.Context) ([]models.ProcessSample, error) {
	<-g.release
	return nil, nil
}

func TestSampleLoopService_StartDuringStop(t *testing.T) {
	collector := &gatedCollector{release: make(chan struct{})}
	sink := new(mocks.MockSink)
	sink.On("WritePoints", mock.Anything, mock.Anything).Return(nil)

	loop := services.NewSampleLoop(collector, sink, "h", time.Millisecond, 10, 10, nil, zerolog.Nop())
	s := services.NewSampleLoopService(loop, zerolog.Nop())
	assert.NoError(t, s.Start())

	stopped := make(chan error, 1)
	go func() { stopped <- s.Stop() }()
	time.Sleep(20 * time.Millisecond)

	// the tick is still in flight, so the service must still count as running
	err := s.Start()
	assert.Error(t, err)
	assert.Equal(t, "sample loop service is already running", err.Error())

	close(collector.release)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the tick finished")
	}

	assert.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
}

func TestStatsReporterService_StartStop(t *testing.T) {
	counters := stats.NewCounters()
	counters.Inc("ticks")
	r := services.NewStatsReporterService(5*time.Millisecond, counters, zerolog.Nop())

	assert.NoError(t, r.Start())
	assert.Error(t, r.Start())

	time.Sleep(15 * time.Millisecond)

	assert.NoError(t, r.Stop())
	assert.Error(t, r.Stop())
}

func TestStatsReporterService_RejectsZeroInterval(t *testing.T) {
	r := services.NewStatsReporterService(0, stats.NewCounters(), zerolog.Nop())
	assert.Error(t, r.Start())
}
