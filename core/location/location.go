// Package location captures call-site positions for recorded entries.
// Positions are informational only; replay correlates entries by order,
// never by location.
package location

import (
	"fmt"
	"runtime"
	"strings"
)

// Capture returns the "file:line" of the caller skip frames above Capture
// itself (skip 0 is Capture's caller). The file part keeps at most the last
// two path components so recordings stay stable across checkouts. Returns
// the empty string when the runtime cannot resolve the frame.
func Capture(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", shorten(file), line)
}

func shorten(file string) string {
	// runtime file paths always use forward slashes.
	parts := strings.Split(file, "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
