package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/metrics_collectors"
	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/internal/services"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/benmeehan/procstat-agent/tests/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 15, 250000000, time.UTC)

func scenarioSamples() []models.ProcessSample {
	samples, _ := metrics_collectors.ParseProcessListing(
		"PID PPID %MEM %CPU CMD\n101 1 2.5 10.0 /bin/app\n102 1 50.0 1.0 /bin/worker\n")
	return samples
}

func newCollector(samples []models.ProcessSample, err error) *mocks.MockProcessCollector {
	c := new(mocks.MockProcessCollector)
	c.On("Name").Return("ps").Maybe()
	c.On("Collect", mock.Anything).Return(samples, err)
	return c
}

func TestSampleLoop_Tick_Scenario(t *testing.T) {
	collector := newCollector(scenarioSamples(), nil)
	sink := new(mocks.MockSink)
	counters := stats.NewCounters()

	var written []models.MetricPoint
	sink.On("WritePoints", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]models.MetricPoint)
	}).Return(nil).Once()

	loop := services.NewSampleLoop(collector, sink, "web12", time.Second, 1, 1, counters, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })

	require.NoError(t, loop.Tick(context.Background()))

	require.Len(t, written, 2)
	assert.Equal(t, "cpu", written[0].Measurement)
	assert.Equal(t, 10.0, written[0].Fields.Value)
	assert.Equal(t, 101, written[0].Tags.PID)
	assert.Equal(t, "mem", written[1].Measurement)
	assert.Equal(t, 50.0, written[1].Fields.Value)
	assert.Equal(t, 102, written[1].Tags.PID)
	for _, p := range written {
		assert.Equal(t, "web12", p.Tags.Hostname)
		assert.Equal(t, "2024-05-01T08:30:15Z", p.Time())
	}

	assert.Equal(t, uint64(1), counters.Get(constants.CounterTicks))
	assert.Equal(t, uint64(2), counters.Get(constants.CounterPointsWritten))
	sink.AssertExpectations(t)
}

func TestSampleLoop_BuildBatch_SizeBound(t *testing.T) {
	samples := make([]models.ProcessSample, 0, 40)
	for i := 0; i < 40; i++ {
		samples = append(samples, models.ProcessSample{PID: i + 1, CPUPercent: float64(i), MemPercent: float64(40 - i), Command: "worker"})
	}

	loop := services.NewSampleLoop(nil, nil, "h", time.Second, 10, 10, nil, zerolog.Nop())
	batch, err := loop.BuildBatch(samples, fixedNow)
	require.NoError(t, err)
	assert.Len(t, batch, 20)
	assert.Equal(t, 40, batch[0].Tags.PID)
	assert.Equal(t, 1, batch[10].Tags.PID)

	small := services.NewSampleLoop(nil, nil, "h", time.Second, 3, 2, nil, zerolog.Nop())
	batch, err = small.BuildBatch(samples[:1], fixedNow)
	require.NoError(t, err)
	assert.Len(t, batch, 2, "a single process can be top in both metrics")

	batch, err = small.BuildBatch(nil, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSampleLoop_Tick_ExecutionErrorSkipsEmit(t *testing.T) {
	execErr := &metrics_collectors.ExecutionError{Command: "ps -eo pid", Err: errors.New("permission denied")}
	collector := newCollector(nil, execErr)
	sink := new(mocks.MockSink)
	counters := stats.NewCounters()

	loop := services.NewSampleLoop(collector, sink, "h", time.Second, 10, 10, counters, zerolog.Nop())

	assert.NoError(t, loop.Tick(context.Background()))
	sink.AssertNotCalled(t, "WritePoints", mock.Anything, mock.Anything)
	assert.Equal(t, uint64(1), counters.Get(constants.CounterSampleErrors))
}

func TestSampleLoop_Tick_WriteErrorIsTickLocal(t *testing.T) {
	collector := newCollector(scenarioSamples(), nil)
	sink := new(mocks.MockSink)
	sink.On("WritePoints", mock.Anything, mock.Anything).Return(errors.New("503 service unavailable"))
	counters := stats.NewCounters()

	loop := services.NewSampleLoop(collector, sink, "h", time.Second, 10, 10, counters, zerolog.Nop())

	assert.NoError(t, loop.Tick(context.Background()))
	assert.NoError(t, loop.Tick(context.Background()))
	sink.AssertNumberOfCalls(t, "WritePoints", 2)
	assert.Equal(t, uint64(2), counters.Get(constants.CounterWriteErrors))
	assert.Equal(t, uint64(0), counters.Get(constants.CounterPointsWritten))
}

func TestSampleLoop_Tick_NothingToWrite(t *testing.T) {
	collector := newCollector([]models.ProcessSample{}, nil)
	sink := new(mocks.MockSink)

	loop := services.NewSampleLoop(collector, sink, "h", time.Second, 10, 10, nil, zerolog.Nop())

	assert.NoError(t, loop.Tick(context.Background()))
	sink.AssertNotCalled(t, "WritePoints", mock.Anything, mock.Anything)
}

func TestSampleLoop_Run_StopsDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := newCollector(scenarioSamples(), nil)
	sink := new(mocks.MockSink)
	sink.On("WritePoints", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return(nil)

	loop := services.NewSampleLoop(collector, sink, "h", time.Hour, 10, 10, nil, zerolog.Nop())

	result := make(chan error, 1)
	go func() { result <- loop.Run(ctx) }()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}

	sink.AssertNumberOfCalls(t, "WritePoints", 1)
	collector.AssertNumberOfCalls(t, "Collect", 1)
}

func TestSampleLoop_Run_TicksRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := newCollector(scenarioSamples(), nil)
	sink := new(mocks.MockSink)
	writes := 0
	sink.On("WritePoints", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		writes++
		if writes == 3 {
			cancel()
		}
	}).Return(nil)

	loop := services.NewSampleLoop(collector, sink, "h", 5*time.Millisecond, 10, 10, nil, zerolog.Nop())

	assert.NoError(t, loop.Run(ctx))
	assert.Equal(t, 3, writes)
	collector.AssertNumberOfCalls(t, "Collect", 3)
}

func TestSampleLoop_Run_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := newCollector(nil, nil)
	sink := new(mocks.MockSink)

	loop := services.NewSampleLoop(collector, sink, "h", time.Second, 10, 10, nil, zerolog.Nop())

	assert.NoError(t, loop.Run(ctx))
	collector.AssertNotCalled(t, "Collect", mock.Anything)
}
