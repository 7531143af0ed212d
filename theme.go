package quest

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Objective int // objective banner
	Thought   int // planner thought text
	ToolCall  int // tool invocation header
	Error     int // error messages
	Success   int // final answer indicator
	Muted     int // observations, status text
	Accent    int // headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Objective: 4,
		Thought:   8,
		ToolCall:  3,
		Error:     1,
		Success:   2,
		Muted:     8,
		Accent:    5,
	}
}
