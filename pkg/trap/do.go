// do.go adapts Go runtime memory faults into exception records and raises
// them through the handler chain.

package trap

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// FaultError is returned by Do when a handler answered ContinueExecution
// for a memory fault, converting the fault into an ordinary error value.
type FaultError struct {
	Code  Code
	Addr  uintptr
	Cause error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("trap: fault 0x%08X at 0x%X: %v", uint32(e.Code), e.Addr, e.Cause)
}

func (e *FaultError) Unwrap() error { return e.Cause }

// Do runs fn on the calling goroutine with memory faults promoted to
// recoverable panics. When fn faults, Do builds an exception record (the
// faulting address when the runtime reports one, the zero sentinel when it
// does not; the access kind is unknowable on this host), raises it through
// the chain, and then honors the disposition:
//
//   - ContinueSearch: the fault propagates exactly as it would have without
//     Do. Observation never alters disposition.
//   - ContinueExecution: the fault is absorbed and returned as *FaultError.
//     Reserved for the future trap-and-resume path.
//
// Panics that are not memory faults propagate untouched. Do returns nil when
// fn completes normally.
func Do(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		cause, addr, ok := asMemoryFault(r)
		if !ok {
			panic(r)
		}

		rec := &ExceptionRecord{
			Code:   classify(addr),
			Params: []uintptr{KindValueUnknown, addr},
		}
		if Raise(rec) == ContinueExecution {
			err = &FaultError{Code: rec.Code, Addr: addr, Cause: cause}
			return
		}
		panic(r)
	}()

	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	fn()
	return nil
}

// asMemoryFault reports whether a recovered panic value is a runtime memory
// fault, and extracts the faulting address when the runtime carries one.
// Nil dereferences fault at address zero, which coincides with the
// unknown-address sentinel; that is acceptable, page zero is never mapped.
func asMemoryFault(r any) (error, uintptr, bool) {
	rerr, ok := r.(runtime.Error)
	if !ok {
		return nil, 0, false
	}

	// Non-nil fault addresses surface through the runtime's Addr
	// interface when panic-on-fault is enabled.
	if fa, ok := r.(interface{ Addr() uintptr }); ok {
		return rerr, fa.Addr(), true
	}

	if strings.Contains(rerr.Error(), "invalid memory address") ||
		strings.Contains(rerr.Error(), "unexpected fault address") {
		return rerr, 0, true
	}
	return nil, 0, false
}
