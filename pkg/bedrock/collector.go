// collector.go provides the central Collector interface and default
// implementation.

package bedrock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Collector records fault events to configured sinks.
type Collector interface {
	// Record captures a fault event. Blocks until persisted
	// (synchronous). Applies sanitization and fingerprinting before
	// delegating to sinks.
	Record(ctx context.Context, event FaultEvent) error

	// Flush ensures any buffered events are persisted.
	Flush(ctx context.Context) error

	// Close releases resources held by the collector.
	Close() error
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorConfig)

type collectorConfig struct {
	sink        Sink
	pageSize    uintptr
	systemState bool
	startTime   time.Time
}

// WithSink sets the sink for the collector.
func WithSink(sink Sink) CollectorOption {
	return func(c *collectorConfig) {
		c.sink = sink
	}
}

// WithSystemState enables system-state capture on every recorded event.
func WithSystemState() CollectorOption {
	return func(c *collectorConfig) {
		c.systemState = true
	}
}

// WithCollectorPageSize overrides the page size used to re-sanitize event
// addresses before persistence.
func WithCollectorPageSize(pageSize int) CollectorOption {
	return func(c *collectorConfig) {
		if pageSize > 0 {
			c.pageSize = uintptr(pageSize)
		}
	}
}

// defaultCollector is the standard Collector implementation.
type defaultCollector struct {
	sink        Sink
	pageSize    uintptr
	systemState bool
	startTime   time.Time
}

// NewCollector creates a new Collector with the given options.
func NewCollector(opts ...CollectorOption) Collector {
	cfg := &collectorConfig{
		pageSize:  hostPageSize(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default to a noop sink if none provided
	if cfg.sink == nil {
		cfg.sink = &noopSinkInternal{}
	}

	return &defaultCollector{
		sink:        cfg.sink,
		pageSize:    cfg.pageSize,
		systemState: cfg.systemState,
		startTime:   cfg.startTime,
	}
}

// Record captures a fault event with sanitization and fingerprinting.
// The page address is masked again here so no raw address can reach a sink
// even if a caller hands in an unsanitized event.
func (c *defaultCollector) Record(ctx context.Context, event FaultEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	event.Page = SanitizeAddress(event.Page, c.pageSize)
	event.StackTrace = ScrubStackTrace(event.StackTrace)
	event.Fingerprint = Fingerprint(event)

	if c.systemState && event.SystemState == nil {
		event.SystemState = CaptureSystemState(c.startTime)
	}

	return c.sink.Write(ctx, event)
}

// Flush delegates to the sink.
func (c *defaultCollector) Flush(ctx context.Context) error {
	return c.sink.Flush(ctx)
}

// Close delegates to the sink.
func (c *defaultCollector) Close() error {
	return c.sink.Close()
}

// noopSinkInternal is an internal noop sink to avoid import cycles.
type noopSinkInternal struct{}

func (s *noopSinkInternal) Write(ctx context.Context, event FaultEvent) error {
	return nil
}

func (s *noopSinkInternal) Flush(ctx context.Context) error {
	return nil
}

func (s *noopSinkInternal) Close() error {
	return nil
}
