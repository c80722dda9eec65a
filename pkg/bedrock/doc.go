// Package bedrock is the exception interceptor: a process-wide observer
// registered ahead of normal fault handling that classifies memory faults,
// sanitizes faulting addresses to page granularity, and emits forensic log
// lines without ever altering the exception's disposition.
//
// # Core Components
//
//   - Interceptor: installs itself on the trap chain and turns raw
//     exception records into bounded, sanitized forensic messages
//   - FaultEvent: the enriched fault representation with identity,
//     fingerprint, and system state
//   - Collector: stamps, fingerprints and persists fault events to sinks
//   - Sink: destination for fault events (console, multi, async, noop)
//
// # Quick Start
//
//	icpt := bedrock.NewInterceptor()
//	if !icpt.Install() {
//	    // process continues unmonitored
//	}
//	_ = trap.Do(func() {
//	    // code that may fault
//	})
//
// # Design Principles
//
//   - The observer never recovers: every dispatch defers to the next
//     handler. ContinueExecution is reserved for a future trap-and-resume
//     path over guard regions.
//   - Message assembly never allocates: lines are built in a caller-owned
//     stack buffer with a fixed fallback when formatting cannot complete.
//     The one allocation on the dispatch path is the string conversion at
//     the logging boundary.
//   - Addresses never leave verbatim: every logged address is rounded down
//     to its containing page.
package bedrock
