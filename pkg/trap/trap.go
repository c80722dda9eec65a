// Package trap is the host side of fault interception: exception records,
// dispositions, a process-wide prioritized handler chain, and the runtime
// adapter that turns Go memory faults into exception records.
//
// trap deliberately knows nothing about classification or logging. Handlers
// registered on the chain (see pkg/bedrock) receive every raised exception
// and decide whether the search continues or execution resumes.
package trap

// Code identifies an exception class. Values follow the NT status numbering
// so that records raised here and records imported from a hosting process
// compare equal.
type Code uint32

const (
	// CodeAccessViolation is raised for illegal memory access: nil
	// dereferences, wild pointers, writes to read-only pages.
	CodeAccessViolation Code = 0xC0000005

	// CodeGuardPageViolation is raised when an access lands inside a
	// region the process has armed as trap-on-access.
	CodeGuardPageViolation Code = 0x80000001

	// CodeBreakpoint is a benign, expected exception. It is never
	// classified; it exists so tests can exercise the ignore path.
	CodeBreakpoint Code = 0x80000003
)

// Parameter layout for memory-fault records. Params[ParamAccessKind] holds
// the access-kind discriminator and Params[ParamAddress] the faulting
// virtual address. Records with fewer parameters are valid; consumers must
// length-check before indexing.
const (
	ParamAccessKind = 0
	ParamAddress    = 1

	// MinAddressParams is the parameter count required before a record
	// carries a faulting address.
	MinAddressParams = 2
)

// KindValueUnknown is the access-kind value used when the host cannot tell
// whether the fault was a read or a write. It maps to the generic
// "Access to" phrasing downstream.
const KindValueUnknown uintptr = 0xFF

// ExceptionRecord describes a single raised exception. A record is owned by
// the raising call stack, lives only for the duration of the dispatch, and
// must not be retained by handlers.
type ExceptionRecord struct {
	// Code is the platform exception code.
	Code Code

	// Params carries auxiliary values attached by the host. Its length
	// is the authoritative parameter count; it may be nil or shorter
	// than MinAddressParams.
	Params []uintptr
}

// Address returns the faulting address carried by the record, or zero when
// the parameter list is too short to contain one. The zero sentinel is the
// defined "address unknown" value; callers never see garbage.
func (r *ExceptionRecord) Address() uintptr {
	if r == nil || len(r.Params) < MinAddressParams {
		return 0
	}
	return r.Params[ParamAddress]
}

// Disposition is a handler's answer to the chain.
type Disposition int

const (
	// ContinueSearch passes the exception to the next handler. Every
	// shipped handler returns this: the chain observes, it does not
	// recover.
	ContinueSearch Disposition = iota

	// ContinueExecution resumes at the fault site and stops the search.
	// Reserved for a future trap-and-resume path over guard regions; the
	// chain and Do honor it, nothing returns it today.
	ContinueExecution
)

func (d Disposition) String() string {
	switch d {
	case ContinueSearch:
		return "continue-search"
	case ContinueExecution:
		return "continue-execution"
	default:
		return "unknown"
	}
}

// Handler receives every exception raised through the chain. Handlers run
// synchronously on the faulting goroutine, possibly concurrently with other
// faulting goroutines, and must not panic.
type Handler func(*ExceptionRecord) Disposition
