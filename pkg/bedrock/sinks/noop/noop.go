// Package noop provides a sink that discards every fault event. It backs
// tests and deployments that want the interceptor's forensic log lines
// without persisted event collection.
package noop

import (
	"context"

	"github.com/sentinel-mon/sentinel/pkg/bedrock"
)

type noopSink struct{}

// NewNoopSink creates a sink that discards every fault event. All methods
// succeed unconditionally.
func NewNoopSink() bedrock.Sink {
	return &noopSink{}
}

func (s *noopSink) Write(ctx context.Context, event bedrock.FaultEvent) error {
	return nil
}

func (s *noopSink) Flush(ctx context.Context) error {
	return nil
}

func (s *noopSink) Close() error {
	return nil
}
