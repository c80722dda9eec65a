// format.go assembles forensic messages in caller-owned buffers. The
// dispatch path may run while the process heap is suspect, so nothing here
// allocates: no fmt, no string concatenation, just appends into a
// fixed-size scratch array living on the dispatching stack.

package bedrock

// maxMessageLen bounds every forensic message. The longest line the
// formatters can produce is 87 bytes.
const maxMessageLen = 96

// FallbackMessage is emitted when a forensic line cannot be formatted. A
// degraded trail beats no trail.
const FallbackMessage = "[CRITICAL] Memory fault detected (details unavailable)"

const (
	guardPrefix  = "[CRITICAL] Guard Page Violation Detected at 0x"
	guardSuffix  = " (page-aligned)!"
	accessPrefix = "[CRITICAL] Access Violation! "
	accessMiddle = " address 0x"
	accessSuffix = " (page-aligned)"
)

const hexDigits = "0123456789ABCDEF"

// appendHex16 appends v as 16 uppercase, zero-padded hex digits.
func appendHex16(dst []byte, v uintptr) []byte {
	var digits [16]byte
	for i := 15; i >= 0; i-- {
		digits[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return append(dst, digits[:]...)
}

// appendBounded appends s to dst only if it fits without growing the
// backing array. Returns false on overflow, in which case the caller must
// fall back to FallbackMessage.
func appendBounded(dst []byte, s string) ([]byte, bool) {
	if len(dst)+len(s) > cap(dst) {
		return dst, false
	}
	return append(dst, s...), true
}

// formatGuardPage writes the guard-page violation line for a sanitized page
// address into scratch. ok is false when scratch is too small.
func formatGuardPage(scratch []byte, page uintptr) ([]byte, bool) {
	b := scratch[:0]
	var ok bool
	if b, ok = appendBounded(b, guardPrefix); !ok {
		return nil, false
	}
	if len(b)+16 > cap(b) {
		return nil, false
	}
	b = appendHex16(b, page)
	if b, ok = appendBounded(b, guardSuffix); !ok {
		return nil, false
	}
	return b, true
}

// formatAccessViolation writes the access-violation line for a decoded
// access kind and sanitized page address into scratch.
func formatAccessViolation(scratch []byte, kind AccessKind, page uintptr) ([]byte, bool) {
	b := scratch[:0]
	var ok bool
	if b, ok = appendBounded(b, accessPrefix); !ok {
		return nil, false
	}
	if b, ok = appendBounded(b, kind.Phrase()); !ok {
		return nil, false
	}
	if b, ok = appendBounded(b, accessMiddle); !ok {
		return nil, false
	}
	if len(b)+16 > cap(b) {
		return nil, false
	}
	b = appendHex16(b, page)
	if b, ok = appendBounded(b, accessSuffix); !ok {
		return nil, false
	}
	return b, true
}
