// chain.go implements the process-wide handler chain that stands in for the
// host's vectored exception dispatch.

package trap

import (
	"sort"
	"sync"
)

// PriorityFirst is the conventional slot for observers that must run ahead
// of general-purpose handlers. Priority zero is left to the host itself.
const PriorityFirst = 1

// Handle represents one registered handler. No removal operation exists in
// this scope; the type is exported so a teardown path can be added without
// changing the registration contract.
type Handle struct {
	priority int
	seq      uint64
	fn       Handler
}

type chain struct {
	mu       sync.RWMutex
	nextSeq  uint64
	handlers []*Handle
}

// The chain is process-wide by construction: the host dispatch mechanism it
// models knows only one registration table per process.
var processChain chain

// AddHandler installs h on the process-wide chain. Lower priority values run
// earlier; handlers with equal priority run in registration order. Safe for
// concurrent use, though registration is expected to happen during startup.
func AddHandler(priority int, h Handler) *Handle {
	if h == nil {
		return nil
	}

	processChain.mu.Lock()
	defer processChain.mu.Unlock()

	handle := &Handle{
		priority: priority,
		seq:      processChain.nextSeq,
		fn:       h,
	}
	processChain.nextSeq++

	// Copy-on-write: Raise iterates a snapshot of this slice outside the
	// lock, so a published slice is never appended to or re-sorted in
	// place. Registration pays for the copy, the fault path stays a
	// lock-free walk.
	next := make([]*Handle, 0, len(processChain.handlers)+1)
	next = append(next, processChain.handlers...)
	next = append(next, handle)
	sort.SliceStable(next, func(i, j int) bool {
		a, b := next[i], next[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.seq < b.seq
	})
	processChain.handlers = next

	return handle
}

// HandlerCount reports how many handlers are installed. Used by tests and by
// callers that want to detect a missing installation.
func HandlerCount() int {
	processChain.mu.RLock()
	defer processChain.mu.RUnlock()
	return len(processChain.handlers)
}

// resetChain drops every registered handler. Test hook only; production
// code has no teardown path.
func resetChain() {
	processChain.mu.Lock()
	defer processChain.mu.Unlock()
	processChain.handlers = nil
	processChain.nextSeq = 0
}

// Raise walks the chain with rec. The first handler answering
// ContinueExecution wins and stops the search; otherwise the search is
// exhausted and ContinueSearch is returned so the host's normal handling
// proceeds. A nil record is nothing to dispatch and defers immediately.
//
// Raise is reentrant and safe to call concurrently from any number of
// faulting goroutines; the handler list is only read here.
func Raise(rec *ExceptionRecord) Disposition {
	if rec == nil {
		return ContinueSearch
	}

	processChain.mu.RLock()
	handlers := processChain.handlers
	processChain.mu.RUnlock()

	for _, h := range handlers {
		if h == nil || h.fn == nil {
			continue
		}
		if h.fn(rec) == ContinueExecution {
			return ContinueExecution
		}
	}
	return ContinueSearch
}
