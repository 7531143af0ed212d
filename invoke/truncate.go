package invoke

import (
	"fmt"
	"strings"
)

// Observation limits. What a tool prints is unbounded; what the planner
// sees is not.
const (
	MaxObservationLines = 400
	MaxObservationBytes = 16 * 1024
)

// Truncate keeps the tail of s within line and byte limits. When
// anything is dropped the result starts with a one-line notice so the
// planner knows it is looking at partial output.
func Truncate(s string, maxLines, maxBytes int) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines && len(s) <= maxBytes {
		return s
	}

	// Collect whole lines backwards until a limit is hit.
	kept := 0
	size := 0
	for i := len(lines) - 1; i >= 0 && kept < maxLines; i-- {
		lineSize := len(lines[i])
		if kept > 0 {
			lineSize++ // joining newline
		}
		if size+lineSize > maxBytes {
			break
		}
		size += lineSize
		kept++
	}

	if kept == 0 {
		// A single line longer than the byte budget: keep its tail.
		last := lines[len(lines)-1]
		if len(last) > maxBytes {
			last = last[len(last)-maxBytes:]
		}
		notice := fmt.Sprintf("[output truncated: showing last %d bytes of %d]", len(last), len(s))
		return notice + "\n" + last
	}

	tail := lines[len(lines)-kept:]
	notice := fmt.Sprintf("[output truncated: showing last %d of %d lines]", kept, len(lines))
	return notice + "\n" + strings.Join(tail, "\n")
}
