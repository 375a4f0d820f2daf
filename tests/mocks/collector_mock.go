package mocks

import (
	"context"

	"github.com/benmeehan/procstat-agent/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProcessCollector is a mock implementation of the ProcessCollector interface
type MockProcessCollector struct {
	mock.Mock
}

func (m *MockProcessCollector) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProcessCollector) Collect(ctx context.Context) ([]models.ProcessSample, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]models.ProcessSample), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessCollector) Description() string {
	args := m.Called()
	return args.String(0)
}
