// interceptor.go installs the process-wide exception observer and hosts the
// dispatch routine invoked on every raised exception.

package bedrock

import (
	"context"
	"runtime/debug"
	"sync/atomic"

	"github.com/sentinel-mon/sentinel/pkg/diag"
	"github.com/sentinel-mon/sentinel/pkg/trap"
)

// DiagnosticLog is the synchronized output channel the interceptor reports
// through. *diag.Logger satisfies it.
type DiagnosticLog interface {
	LogInfo(message string)
	LogError(message string)
}

// Interceptor observes every exception raised through the trap chain. It
// classifies recognized memory faults, sanitizes their addresses, and emits
// bounded forensic messages. It never handles anything: every dispatch
// answers ContinueSearch.
type Interceptor struct {
	log       DiagnosticLog
	collector Collector
	pageMask  uintptr
	installed atomic.Bool
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLog sets the diagnostic sink for forensic messages. Defaults to the
// process diag logger.
func WithLog(log DiagnosticLog) Option {
	return func(i *Interceptor) {
		i.log = log
	}
}

// WithCollector attaches a fault-event collector. Recording is best-effort:
// collector errors never propagate out of dispatch.
func WithCollector(c Collector) Option {
	return func(i *Interceptor) {
		i.collector = c
	}
}

// WithPageSize overrides the platform page size used for address
// sanitization. Values that are not powers of two fall back to 4KB.
func WithPageSize(pageSize int) Option {
	return func(i *Interceptor) {
		if pageSize > 0 {
			i.pageMask = SanitizeAddress(^uintptr(0), uintptr(pageSize))
		}
	}
}

// NewInterceptor builds an interceptor. The sanitization mask is derived
// from the running platform's page size unless overridden.
func NewInterceptor(opts ...Option) *Interceptor {
	i := &Interceptor{
		pageMask: SanitizeAddress(^uintptr(0), hostPageSize()),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		i.log = diag.Default()
	}
	return i
}

// Install registers the dispatch routine on the process-wide chain at a
// priority ahead of general-purpose handlers. The first call installs
// exactly one observer; repeated calls are idempotent and report success
// without installing a second one. Registration failure is reported through
// the diagnostic sink and leaves the process running unmonitored.
//
// Install is not safe to call concurrently with itself; invoke it once
// during startup, before other goroutines fault.
func (i *Interceptor) Install() bool {
	if !i.installed.CompareAndSwap(false, true) {
		return true
	}

	if h := trap.AddHandler(trap.PriorityFirst, i.Dispatch); h == nil {
		i.installed.Store(false)
		i.log.LogError("Failed to register exception observer")
		return false
	}

	i.log.LogInfo("Crash interceptor initialized successfully")
	return true
}

// Installed reports whether the observer is registered.
func (i *Interceptor) Installed() bool {
	return i.installed.Load()
}

// Dispatch is invoked by the chain on every exception, on the faulting
// goroutine, with normal execution suspended until it returns. It is
// reentrant, safe under concurrent faults, and never panics: every
// extraction is length-checked and formatting failures degrade to a fixed
// message. Unrecognized codes defer immediately with no further work; that
// is the dominant, latency-sensitive case.
func (i *Interceptor) Dispatch(rec *trap.ExceptionRecord) trap.Disposition {
	if rec == nil {
		return trap.ContinueSearch
	}

	switch rec.Code {
	case trap.CodeGuardPageViolation:
		i.reportGuardPage(rec)
	case trap.CodeAccessViolation:
		i.reportAccessViolation(rec)
	}
	return trap.ContinueSearch
}

func (i *Interceptor) reportGuardPage(rec *trap.ExceptionRecord) {
	page := i.sanitize(rec.Address())

	var scratch [maxMessageLen]byte
	msg, ok := formatGuardPage(scratch[:], page)
	if !ok {
		i.emit(FallbackMessage, rec.Code, AccessUnknown, page)
		return
	}

	// This is the designed insertion point for the trap-and-resume
	// protocol over guard regions: disarm, reveal one unit, execute,
	// re-arm, answer ContinueExecution. Until that exists the fault is
	// only recorded and the search continues.
	i.emit(string(msg), rec.Code, AccessUnknown, page)
}

func (i *Interceptor) reportAccessViolation(rec *trap.ExceptionRecord) {
	kind := AccessRead
	var addr uintptr
	if len(rec.Params) >= trap.MinAddressParams {
		kind = KindFromParam(rec.Params[trap.ParamAccessKind])
		addr = rec.Params[trap.ParamAddress]
	}
	page := i.sanitize(addr)

	var scratch [maxMessageLen]byte
	msg, ok := formatAccessViolation(scratch[:], kind, page)
	if !ok {
		i.emit(FallbackMessage, rec.Code, kind, page)
		return
	}
	i.emit(string(msg), rec.Code, kind, page)
}

func (i *Interceptor) sanitize(addr uintptr) uintptr {
	return addr & i.pageMask
}

// emit writes the forensic line and, when a collector is attached, records
// the enriched event. Collector failures are swallowed: the observer may
// never become a fault source itself.
func (i *Interceptor) emit(message string, code trap.Code, kind AccessKind, page uintptr) {
	i.log.LogError(message)

	if i.collector != nil {
		// Event enrichment is allowed to allocate: it runs only when a
		// collector is attached and is best-effort by contract.
		_ = i.collector.Record(context.Background(), FaultEvent{
			Code:       code,
			AccessKind: kind,
			Page:       page,
			Message:    message,
			StackTrace: string(debug.Stack()),
		})
	}
}
