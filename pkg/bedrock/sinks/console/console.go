// Package console provides a sink that renders fault events through the
// diagnostic logger. Useful when faults are collected without a directly
// attached logger, and for development visibility.
package console

import (
	"context"
	"strconv"

	"github.com/sentinel-mon/sentinel/pkg/bedrock"
	"github.com/sentinel-mon/sentinel/pkg/diag"
)

// ConsoleSinkOption configures the console sink.
type ConsoleSinkOption func(*consoleSinkConfig)

type consoleSinkConfig struct {
	log     bedrock.DiagnosticLog
	verbose bool
}

// WithLog sets the diagnostic logger to render through. Defaults to the
// process diag logger.
func WithLog(log bedrock.DiagnosticLog) ConsoleSinkOption {
	return func(c *consoleSinkConfig) {
		c.log = log
	}
}

// WithVerbose adds an informational enrichment line (event ID, fingerprint,
// system state) after each forensic line.
func WithVerbose() ConsoleSinkOption {
	return func(c *consoleSinkConfig) {
		c.verbose = true
	}
}

// consoleSink renders fault events as forensic log lines.
type consoleSink struct {
	log     bedrock.DiagnosticLog
	verbose bool
}

// NewConsoleSink creates a sink that writes through the diagnostic logger.
func NewConsoleSink(opts ...ConsoleSinkOption) bedrock.Sink {
	cfg := &consoleSinkConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log == nil {
		cfg.log = diag.Default()
	}
	return &consoleSink{
		log:     cfg.log,
		verbose: cfg.verbose,
	}
}

// Write emits the event's forensic line at error severity, falling back to
// the fixed message when the event carries none.
func (s *consoleSink) Write(ctx context.Context, event bedrock.FaultEvent) error {
	msg := event.Message
	if msg == "" {
		msg = bedrock.FallbackMessage
	}
	s.log.LogError(msg)

	if s.verbose {
		s.log.LogInfo(enrichmentLine(event))
	}
	return nil
}

// Flush is a no-op for the console sink.
func (s *consoleSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op for the console sink.
func (s *consoleSink) Close() error {
	return nil
}

func enrichmentLine(event bedrock.FaultEvent) string {
	line := "fault event " + event.EventID +
		" fingerprint " + event.Fingerprint +
		" kind " + event.AccessKind.String()

	if st := event.SystemState; st != nil {
		line += " goroutines " + strconv.Itoa(st.GoroutineCount) +
			" heap " + strconv.FormatInt(st.MemoryBytes, 10)
	}
	return line
}
