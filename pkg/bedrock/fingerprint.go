// fingerprint.go generates stable hashes for grouping recurring faults.

package bedrock

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Fingerprint hashes the stable shape of a fault: exception code, access
// kind, and sanitized page. Variable data (timestamps, event IDs, message
// text) is ignored, so repeated faults on the same page collapse into one
// group.
func Fingerprint(event FaultEvent) string {
	parts := []string{
		strconv.FormatUint(uint64(event.Code), 16),
		event.AccessKind.String(),
		strconv.FormatUint(uint64(event.Page), 16),
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:16])
}
