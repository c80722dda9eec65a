package bedrock

import (
	"testing"
	"time"

	"github.com/sentinel-mon/sentinel/pkg/trap"
)

func TestFingerprint_StableAcrossVariableFields(t *testing.T) {
	base := FaultEvent{
		Code:       trap.CodeAccessViolation,
		AccessKind: AccessWrite,
		Page:       0x00007FF6A0001000,
	}

	other := base
	other.EventID = "different"
	other.Timestamp = time.Now()
	other.Message = "different message"
	other.StackTrace = "goroutine 1 [running]:\nmain.main()"

	if Fingerprint(base) != Fingerprint(other) {
		t.Error("fingerprint should ignore identity, message and stack fields")
	}
}

func TestFingerprint_VariesWithShape(t *testing.T) {
	base := FaultEvent{
		Code:       trap.CodeAccessViolation,
		AccessKind: AccessWrite,
		Page:       0x00007FF6A0001000,
	}

	byCode := base
	byCode.Code = trap.CodeGuardPageViolation

	byKind := base
	byKind.AccessKind = AccessRead

	byPage := base
	byPage.Page = 0x00007FF6A0002000

	fp := Fingerprint(base)
	for name, ev := range map[string]FaultEvent{
		"code": byCode, "kind": byKind, "page": byPage,
	} {
		if Fingerprint(ev) == fp {
			t.Errorf("fingerprint should vary with %s", name)
		}
	}
}

func TestFingerprint_Format(t *testing.T) {
	fp := Fingerprint(FaultEvent{Code: trap.CodeAccessViolation})
	if len(fp) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(fp))
	}
	for _, c := range fp {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("fingerprint %q contains non-hex character %q", fp, c)
			break
		}
	}
}
