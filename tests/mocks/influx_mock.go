package mocks

import (
	"time"

	client "github.com/influxdata/influxdb/client/v2"
	"github.com/stretchr/testify/mock"
)

// MockInfluxClient is a mock implementation of the InfluxClient interface
type MockInfluxClient struct {
	mock.Mock
}

func (m *MockInfluxClient) Ping(timeout time.Duration) (time.Duration, string, error) {
	args := m.Called(timeout)
	return args.Get(0).(time.Duration), args.String(1), args.Error(2)
}

func (m *MockInfluxClient) Write(bp client.BatchPoints) error {
	args := m.Called(bp)
	return args.Error(0)
}

func (m *MockInfluxClient) Query(q client.Query) (*client.Response, error) {
	args := m.Called(q)
	if r := args.Get(0); r != nil {
		return r.(*client.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInfluxClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
