package diag

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

// syncBuffer lets concurrent emissions land in one buffer. The logger's own
// lock is what keeps lines whole; this lock only makes the buffer itself
// safe to share with the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogger_SeverityPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	log := New(WithStreams(&out, &errOut), WithColor(ColorNever))

	log.LogInfo("system check")
	log.LogError("something broke")

	if got := out.String(); got != "[INFO] system check\n" {
		t.Errorf("stdout = %q, want prefixed info line", got)
	}
	if got := errOut.String(); got != "[ERROR] something broke\n" {
		t.Errorf("stderr = %q, want prefixed error line", got)
	}
}

func TestLogger_StreamsAreIndependent(t *testing.T) {
	var out, errOut bytes.Buffer
	log := New(WithStreams(&out, &errOut), WithColor(ColorNever))

	log.LogInfo("to stdout")
	log.LogError("to stderr")

	if strings.Contains(out.String(), "to stderr") {
		t.Error("error line leaked into stdout")
	}
	if strings.Contains(errOut.String(), "to stdout") {
		t.Error("info line leaked into stderr")
	}
}

func TestLogger_ColorAlways(t *testing.T) {
	var out, errOut bytes.Buffer
	log := New(WithStreams(&out, &errOut), WithColor(ColorAlways))

	log.LogInfo("green")
	log.LogError("red")

	if got := out.String(); !strings.HasPrefix(got, ansiGreen) || !strings.Contains(got, ansiReset) {
		t.Errorf("stdout = %q, want green with reset", got)
	}
	if got := errOut.String(); !strings.HasPrefix(got, ansiRed) || !strings.Contains(got, ansiReset) {
		t.Errorf("stderr = %q, want red with reset", got)
	}
}

func TestLogger_NonTerminalWritersDegradeToPlainText(t *testing.T) {
	var out, errOut bytes.Buffer
	log := New(WithStreams(&out, &errOut)) // ColorAuto; buffers are not terminals

	log.LogInfo("plain")
	log.LogError("plain")

	if strings.Contains(out.String(), "\033[") {
		t.Errorf("stdout carries escapes for a non-terminal: %q", out.String())
	}
	if strings.Contains(errOut.String(), "\033[") {
		t.Errorf("stderr carries escapes for a non-terminal: %q", errOut.String())
	}
}

func TestLogger_AttributesRestoredAfterEveryLine(t *testing.T) {
	var out bytes.Buffer
	log := New(WithStreams(&out, io.Discard), WithColor(ColorAlways))

	log.LogInfo("one")
	log.LogInfo("two")

	if got := strings.Count(out.String(), ansiReset); got != 2 {
		t.Errorf("%d resets for 2 lines, want one per line", got)
	}
}

func TestLogger_ConcurrentEmissionsKeepLinesWhole(t *testing.T) {
	shared := &syncBuffer{}
	log := New(WithStreams(shared, shared), WithColor(ColorNever))

	const goroutines = 8
	const perGoroutine = 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				msg := fmt.Sprintf("worker %d message %d payload %s",
					id, i, strings.Repeat("x", 64))
				if i%2 == 0 {
					log.LogInfo(msg)
				} else {
					log.LogError(msg)
				}
			}
		}(g)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(shared.String(), "\n"), "\n")
	if len(lines) != goroutines*perGoroutine {
		t.Fatalf("got %d lines, want %d", len(lines), goroutines*perGoroutine)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "[INFO] worker ") && !strings.HasPrefix(line, "[ERROR] worker ") {
			t.Fatalf("interleaved or malformed line: %q", line)
		}
		if !strings.HasSuffix(line, strings.Repeat("x", 64)) {
			t.Fatalf("truncated line: %q", line)
		}
	}
}

func TestDefault_SingletonIdentity(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same logger on every call")
	}
}
