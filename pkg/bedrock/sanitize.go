// sanitize.go reduces faulting addresses to page granularity before they
// reach any output channel. A page-aligned address keeps enough forensic
// signal (which page, which module range) while leaking nothing useful for
// address-space reconnaissance.

package bedrock

import "os"

// fallbackPageSize is used when the platform reports a page size that is
// not a positive power of two. 4KB is the smallest page size in use on
// supported hosts.
const fallbackPageSize = 4096

// SanitizeAddress clears the low page-offset bits of addr. The result is
// always page-aligned and never greater than addr. pageSize must be a
// power of two; invalid values fall back to 4KB rather than producing a
// finer-grained (leakier) mask.
func SanitizeAddress(addr, pageSize uintptr) uintptr {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		pageSize = fallbackPageSize
	}
	return addr &^ (pageSize - 1)
}

// hostPageSize returns the running platform's page size, falling back to
// 4KB if the report is unusable. The sanitization mask must match the real
// page size, never a hard-coded one.
func hostPageSize() uintptr {
	ps := os.Getpagesize()
	if ps <= 0 || ps&(ps-1) != 0 {
		return fallbackPageSize
	}
	return uintptr(ps)
}
