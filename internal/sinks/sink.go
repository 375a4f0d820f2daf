// Package sinks delivers metric point batches to a storage backend.
package sinks

import (
	"context"

	"github.com/benmeehan/procstat-agent/internal/models"
)

// Sink accepts batches of points. Implementations own their connection,
// authentication and transport behaviour.
type Sink interface {
	// EnsureReady performs idempotent setup such as creating the target namespace.
	EnsureReady(ctx context.Context) error
	// WritePoints writes the whole batch in one call.
	WritePoints(ctx context.Context, points []models.MetricPoint) error
	Close() error
}

// Factory constructs a sink. It is called lazily, on first use.
type Factory func(ctx context.Context) (Sink, error)
