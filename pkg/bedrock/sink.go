// sink.go defines the Sink interface for fault event destinations.

package bedrock

import "context"

// Sink is the destination for fault events.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Write persists a fault event. Called after sanitization and
	// enrichment.
	Write(ctx context.Context, event FaultEvent) error

	// Flush ensures any buffered events are persisted.
	// For synchronous sinks, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the sink.
	// After Close is called, Write and Flush should return errors.
	Close() error
}
