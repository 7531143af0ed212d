package invoke

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips ANSI escape sequences and control characters from
// captured output before it becomes an observation. Tabs and newlines
// survive; CRLF normalizes to LF; everything else below 0x20 is
// dropped.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r > 0x1F {
			b.WriteRune(r)
		}
	}
	return b.String()
}
