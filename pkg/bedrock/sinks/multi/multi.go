// Package multi provides a sink that fans each fault event out to several
// destinations, typically a summary aggregator alongside a console
// renderer. Every sink sees every event; per-sink errors are aggregated
// rather than short-circuiting the fan-out.
package multi

import (
	"context"
	"errors"

	"github.com/sentinel-mon/sentinel/pkg/bedrock"
)

type multiSink struct {
	sinks []bedrock.Sink
}

// NewMultiSink creates a sink that delivers every fault event to each of
// the given sinks in order. Errors are aggregated via errors.Join.
func NewMultiSink(sinks ...bedrock.Sink) bedrock.Sink {
	return &multiSink{
		sinks: sinks,
	}
}

// Write delivers the event to every sink. A failing sink never deprives
// the others of the event.
func (s *multiSink) Write(ctx context.Context, event bedrock.FaultEvent) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush calls Flush on all sinks, collecting any errors.
func (s *multiSink) Flush(ctx context.Context) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on all sinks, collecting any errors.
func (s *multiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
