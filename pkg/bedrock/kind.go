// kind.go decodes the access-kind discriminator carried by memory-fault
// records.

package bedrock

// AccessKind is the decoded flavor of a memory access fault.
type AccessKind int

const (
	// AccessRead is an attempted read from an inaccessible address.
	AccessRead AccessKind = iota

	// AccessWrite is an attempted write to an inaccessible address.
	AccessWrite

	// AccessExecute is a hardware no-execute (DEP) violation.
	AccessExecute

	// AccessUnknown covers every discriminator value outside the closed
	// mapping. Unrecognized values are expected input, not an error.
	AccessUnknown
)

// Discriminator values defined by the host for memory-fault records.
const (
	kindValueRead    uintptr = 0
	kindValueWrite   uintptr = 1
	kindValueExecute uintptr = 8
)

// KindFromParam maps the raw discriminator to an AccessKind. Anything
// outside {0, 1, 8} lands in the AccessUnknown bucket.
func KindFromParam(v uintptr) AccessKind {
	switch v {
	case kindValueRead:
		return AccessRead
	case kindValueWrite:
		return AccessWrite
	case kindValueExecute:
		return AccessExecute
	default:
		return AccessUnknown
	}
}

// Phrase returns the wording used in forensic messages. The phrasing is a
// stable contract consumed by downstream log parsers.
func (k AccessKind) Phrase() string {
	switch k {
	case AccessRead:
		return "Read from"
	case AccessWrite:
		return "Write to"
	case AccessExecute:
		return "DEP violation at"
	default:
		return "Access to"
	}
}

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "unknown"
	}
}
