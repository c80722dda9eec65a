package trap

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRaise_NilRecordDefers(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	called := false
	AddHandler(PriorityFirst, func(rec *ExceptionRecord) Disposition {
		called = true
		return ContinueSearch
	})

	if got := Raise(nil); got != ContinueSearch {
		t.Errorf("Raise(nil) = %v, want ContinueSearch", got)
	}
	if called {
		t.Error("handler should not run for a nil record")
	}
}

func TestRaise_EmptyChainDefers(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	rec := &ExceptionRecord{Code: CodeAccessViolation}
	if got := Raise(rec); got != ContinueSearch {
		t.Errorf("Raise with empty chain = %v, want ContinueSearch", got)
	}
}

func TestAddHandler_NilHandlerRejected(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	if h := AddHandler(PriorityFirst, nil); h != nil {
		t.Error("AddHandler(nil) should return nil")
	}
	if HandlerCount() != 0 {
		t.Errorf("HandlerCount = %d, want 0", HandlerCount())
	}
}

func TestRaise_PriorityOrder(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	var order []string
	AddHandler(5, func(rec *ExceptionRecord) Disposition {
		order = append(order, "late")
		return ContinueSearch
	})
	AddHandler(1, func(rec *ExceptionRecord) Disposition {
		order = append(order, "early")
		return ContinueSearch
	})

	Raise(&ExceptionRecord{Code: CodeAccessViolation})

	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("handler order = %v, want [early late]", order)
	}
}

func TestRaise_EqualPriorityRunsInRegistrationOrder(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		AddHandler(PriorityFirst, func(rec *ExceptionRecord) Disposition {
			order = append(order, i)
			return ContinueSearch
		})
	}

	Raise(&ExceptionRecord{Code: CodeAccessViolation})

	for i, got := range order {
		if got != i {
			t.Fatalf("position %d ran handler %d, want registration order", i, got)
		}
	}
}

func TestRaise_ContinueExecutionStopsSearch(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	var afterRan bool
	AddHandler(1, func(rec *ExceptionRecord) Disposition {
		return ContinueExecution
	})
	AddHandler(2, func(rec *ExceptionRecord) Disposition {
		afterRan = true
		return ContinueSearch
	})

	if got := Raise(&ExceptionRecord{Code: CodeGuardPageViolation}); got != ContinueExecution {
		t.Errorf("Raise = %v, want ContinueExecution", got)
	}
	if afterRan {
		t.Error("search should stop at the resuming handler")
	}
}

func TestRaise_ConcurrentDispatch(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	var mu sync.Mutex
	count := 0
	AddHandler(PriorityFirst, func(rec *ExceptionRecord) Disposition {
		mu.Lock()
		count++
		mu.Unlock()
		return ContinueSearch
	})

	const goroutines = 16
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Raise(&ExceptionRecord{Code: CodeAccessViolation, Params: []uintptr{0, 0x1000}})
		}()
	}
	wg.Wait()

	if count != goroutines {
		t.Errorf("handler ran %d times, want %d", count, goroutines)
	}
}

func TestAddHandler_DuringDispatchLeavesSnapshotIntact(t *testing.T) {
	resetChain()
	t.Cleanup(resetChain)

	entered := make(chan struct{})
	release := make(chan struct{})
	var enterOnce sync.Once
	AddHandler(5, func(rec *ExceptionRecord) Disposition {
		enterOnce.Do(func() { close(entered) })
		<-release
		return ContinueSearch
	})

	var lateCalls atomic.Int32
	done := make(chan Disposition, 1)
	go func() {
		done <- Raise(&ExceptionRecord{Code: CodeAccessViolation})
	}()

	// Register a handler that sorts ahead of the one currently blocked
	// mid-dispatch. The in-flight walk holds its own snapshot and must
	// finish it unchanged.
	<-entered
	AddHandler(PriorityFirst, func(rec *ExceptionRecord) Disposition {
		lateCalls.Add(1)
		return ContinueSearch
	})
	close(release)

	if got := <-done; got != ContinueSearch {
		t.Errorf("in-flight Raise = %v, want ContinueSearch", got)
	}
	if got := lateCalls.Load(); got != 0 {
		t.Errorf("handler registered mid-dispatch ran %d times in that dispatch", got)
	}

	// The next dispatch starts from the updated chain.
	Raise(&ExceptionRecord{Code: CodeAccessViolation})
	if got := lateCalls.Load(); got != 1 {
		t.Errorf("late handler ran %d times after registration, want 1", got)
	}
}

func TestExceptionRecord_Address(t *testing.T) {
	tests := []struct {
		name   string
		params []uintptr
		want   uintptr
	}{
		{"nil params", nil, 0},
		{"one param", []uintptr{1}, 0},
		{"two params", []uintptr{1, 0xDEAD0000}, 0xDEAD0000},
		{"extra params", []uintptr{1, 0xBEEF0000, 7}, 0xBEEF0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ExceptionRecord{Code: CodeAccessViolation, Params: tt.params}
			if got := rec.Address(); got != tt.want {
				t.Errorf("Address() = 0x%X, want 0x%X", got, tt.want)
			}
		})
	}

	var nilRec *ExceptionRecord
	if got := nilRec.Address(); got != 0 {
		t.Errorf("nil record Address() = 0x%X, want 0", got)
	}
}

func TestDisposition_String(t *testing.T) {
	if ContinueSearch.String() != "continue-search" {
		t.Errorf("ContinueSearch.String() = %q", ContinueSearch.String())
	}
	if ContinueExecution.String() != "continue-execution" {
		t.Errorf("ContinueExecution.String() = %q", ContinueExecution.String())
	}
}
