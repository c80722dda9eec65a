// event.go defines the enriched fault representation handed to sinks.

package bedrock

import (
	"time"

	"github.com/sentinel-mon/sentinel/pkg/trap"
)

// SystemState captures process metrics at fault time.
type SystemState struct {
	// MemoryBytes is the current heap allocation in bytes.
	MemoryBytes int64

	// GoroutineCount is the number of live goroutines.
	GoroutineCount int

	// UptimeMs is the process uptime in milliseconds.
	UptimeMs int64

	// HostName is the machine the fault occurred on.
	HostName string
}

// FaultEvent is the canonical fault representation. The collector populates
// identity and enrichment fields before passing it to sinks; the page
// address is always sanitized, never the raw faulting address.
type FaultEvent struct {
	// EventID uniquely identifies this event (UUID).
	EventID string

	// Timestamp is when the fault was observed.
	Timestamp time.Time

	// Fingerprint groups recurring faults with the same shape.
	Fingerprint string

	// Code is the platform exception code.
	Code trap.Code

	// AccessKind is the decoded access flavor, AccessUnknown when the
	// host could not tell.
	AccessKind AccessKind

	// Page is the sanitized, page-aligned fault address. Zero means the
	// address was unknown.
	Page uintptr

	// Message is the forensic line emitted for this fault.
	Message string

	// StackTrace is the scrubbed stack of the faulting goroutine, empty
	// when capture was not possible.
	StackTrace string

	// SystemState holds process metrics captured at record time, nil
	// when capture is disabled.
	SystemState *SystemState
}
