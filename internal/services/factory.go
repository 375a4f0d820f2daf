package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/metrics_collectors"
	"github.com/benmeehan/procstat-agent/internal/sinks"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/benmeehan/procstat-agent/internal/utils"
	"github.com/benmeehan/procstat-agent/pkg/file"
	"github.com/benmeehan/procstat-agent/pkg/mqtt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewProcessCollector returns the process source named in config.
func NewProcessCollector(config *utils.Config, counters *stats.Counters, logger zerolog.Logger) (metrics_collectors.ProcessCollector, error) {
	reg := metrics_collectors.NewMetricsRegistry()
	reg.Register(metrics_collectors.NewPSCollector(
		config.Sampler.PSBinary,
		runtime.GOOS,
		config.Sampler.Timeout.Duration,
		metrics_collectors.ExecRunner{},
		counters,
		logger,
	))
	reg.Register(&metrics_collectors.GopsutilCollector{Logger: logger, Counters: counters})

	collector, ok := reg.Get(config.Sampler.Source)
	if !ok {
		return nil, fmt.Errorf("unknown process source %q, available: %v", config.Sampler.Source, reg.Names())
	}
	return collector, nil
}

// NewSinkFactory returns a factory for the sink named in config. Nothing is
// connected until the factory is called.
func NewSinkFactory(config *utils.Config, fileClient file.FileOperations, logger zerolog.Logger) (sinks.Factory, error) {
	switch config.Sink.Type {
	case constants.SinkInfluxDB:
		opts := config.InfluxOptions()
		return func(ctx context.Context) (sinks.Sink, error) {
			logger.Info().Str("addr", opts.Addr()).Str("database", opts.Database).Msg("Connecting to InfluxDB")
			return sinks.NewInfluxSink(opts, logger)
		}, nil

	case constants.SinkMQTT:
		return func(ctx context.Context) (sinks.Sink, error) {
			// Generate a unique MQTT Client ID by appending a UUID
			clientID := config.Sink.MQTT.ClientID + "-" + uuid.New().String()
			logger.Info().Str("broker", config.Sink.MQTT.Broker).Str("client_id", clientID).Msg("Connecting to MQTT broker")

			client := mqtt.NewMqttService(fileClient)
			if err := client.Initialize(config.MQTTOptions(clientID)); err != nil {
				return nil, fmt.Errorf("failed to initialize MQTT connection: %w", err)
			}
			return sinks.NewMQTTSink(client, config.Sink.MQTT.Topic, config.Sink.MQTT.QOS, logger), nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown sink type %q", config.Sink.Type)
	}
}

// RegisterServices builds the sample loop and, when enabled, the stats
// reporter, and registers them in start order.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, loop *SampleLoop, counters *stats.Counters) *SampleLoopService {
	loopService := NewSampleLoopService(loop, sr.logger)
	sr.RegisterService("sampler", loopService)

	if config.Stats.Interval.Duration > 0 {
		sr.RegisterService("stats", NewStatsReporterService(config.Stats.Interval.Duration, counters, sr.logger))
	}

	return loopService
}
