package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/benmeehan/procstat-agent/pkg/mqtt"
	"github.com/rs/zerolog"
)

// MQTTSink publishes each batch as one JSON array message on a topic.
type MQTTSink struct {
	client mqtt.MQTTClient
	topic  string
	qos    int
	logger zerolog.Logger
}

// NewMQTTSink creates a sink on an already connected client.
func NewMQTTSink(client mqtt.MQTTClient, topic string, qos int, logger zerolog.Logger) *MQTTSink {
	return &MQTTSink{
		client: client,
		topic:  topic,
		qos:    qos,
		logger: logger.With().Str("topic", topic).Logger(),
	}
}

// EnsureReady validates the publishing parameters. The topic needs no setup.
func (m *MQTTSink) EnsureReady(ctx context.Context) error {
	if m.topic == "" {
		return errors.New("mqtt topic is empty")
	}
	if m.qos < 0 || m.qos > 2 {
		return fmt.Errorf("invalid mqtt qos %d", m.qos)
	}
	return nil
}

// WritePoints publishes the batch and waits for the broker acknowledgement
// or for ctx to end.
func (m *MQTTSink) WritePoints(ctx context.Context, points []models.MetricPoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to serialize points: %w", err)
	}

	token := m.client.Publish(m.topic, byte(m.qos), false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish failed: %w", err)
		}
	case <-ctx.Done():
		m.logger.Warn().Msg("Publish operation cancelled")
		return ctx.Err()
	}

	m.logger.Debug().Int("points", len(points)).Msg("Points published successfully")
	return nil
}

// Close disconnects from the broker.
func (m *MQTTSink) Close() error {
	m.client.Disconnect(constants.MQTTDisconnectQuiesce)
	return nil
}
