// scrub.go redacts address-space and environment detail from stack traces
// before they leave the process. The same policy that masks fault addresses
// applies here: raw pointers and user paths are reconnaissance material.

package bedrock

import "regexp"

// maxStackTraceSize bounds scrubbed stack traces.
const maxStackTraceSize = 32768

// Path patterns to normalize in stack traces
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

var memAddrPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// ScrubStackTrace normalizes user-specific paths, strips raw memory
// addresses, and bounds the size of a stack trace.
func ScrubStackTrace(trace string) string {
	if trace == "" {
		return trace
	}

	result := trace
	for _, pattern := range pathNormalizationPatterns {
		result = pattern.ReplaceAllString(result, "/[PATH]/")
	}
	result = memAddrPattern.ReplaceAllString(result, "0x...")

	if len(result) > maxStackTraceSize {
		result = result[:maxStackTraceSize-len(truncationMarker)] + truncationMarker
	}
	return result
}

const truncationMarker = "...[TRUNCATED]"
