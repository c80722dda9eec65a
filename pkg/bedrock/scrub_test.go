package bedrock

import (
	"strings"
	"testing"
)

func TestScrubStackTrace_RemovesAddresses(t *testing.T) {
	trace := "main.crash(0x1234abcd, 0xc000010000)\n\tmain.go:12 +0x45"
	got := ScrubStackTrace(trace)

	if strings.Contains(got, "0x1234abcd") || strings.Contains(got, "0xc000010000") {
		t.Errorf("addresses survived scrubbing: %q", got)
	}
	if !strings.Contains(got, "0x...") {
		t.Errorf("addresses should be replaced with placeholder: %q", got)
	}
}

func TestScrubStackTrace_NormalizesUserPaths(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		leak  string
	}{
		{"linux home", "/home/bob/project/main.go:10", "bob"},
		{"macos home", "/Users/carol/project/main.go:10", "carol"},
		{"tmp dir", "/tmp/build-9921/main.go:10", "build-9921"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScrubStackTrace(tt.trace)
			if strings.Contains(got, tt.leak) {
				t.Errorf("user detail %q survived: %q", tt.leak, got)
			}
			if !strings.Contains(got, "/[PATH]/") {
				t.Errorf("path should be normalized: %q", got)
			}
		})
	}
}

func TestScrubStackTrace_EmptyPassesThrough(t *testing.T) {
	if got := ScrubStackTrace(""); got != "" {
		t.Errorf("empty trace became %q", got)
	}
}

func TestScrubStackTrace_TruncatesOversized(t *testing.T) {
	trace := strings.Repeat("main.loop()\n", maxStackTraceSize/8)
	got := ScrubStackTrace(trace)

	if len(got) > maxStackTraceSize {
		t.Errorf("scrubbed trace length %d exceeds bound %d", len(got), maxStackTraceSize)
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Error("truncated trace should end with the truncation marker")
	}
}
