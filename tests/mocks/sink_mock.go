package mocks

import (
	"context"

	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSink is a mock implementation of the sinks.Sink interface
type MockSink struct {
	mock.Mock
}

func (m *MockSink) EnsureReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSink) WritePoints(ctx context.Context, points []models.MetricPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockSink) Close() error {
	args := m.Called()
	return args.Error(0)
}
