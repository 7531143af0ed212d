// Package quest implements an objective-driven tool-orchestration loop.
// A planner repeatedly asks a completion backend what to do next, the
// chosen tool runs as an external process, and the captured output is
// fed back as an observation until the backend reports completion or
// the turn budget runs out.
package quest

import "fmt"

// ToolArgument describes one argument in a tool's invocation schema.
type ToolArgument struct {
	Name        string // key in structured action input
	Option      string // flag token emitted before the value; empty means positional
	Description string
	Required    bool
}

// Tool is an external program registered under a unique name. An empty
// Arguments schema means the tool accepts a single free-form string.
// Tools are immutable once loaded; the Registry owns them and hands out
// copies by value.
type Tool struct {
	Name           string
	Description    string
	InvocationPath string
	Arguments      []ToolArgument
}

// Validate checks that a loaded definition carries the required fields.
func (t Tool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool is missing a name: %w", ErrConfig)
	}
	if t.Description == "" {
		return fmt.Errorf("tool %q is missing a description: %w", t.Name, ErrConfig)
	}
	if t.InvocationPath == "" {
		return fmt.Errorf("tool %q is missing an invocation path: %w", t.Name, ErrConfig)
	}
	for _, arg := range t.Arguments {
		if arg.Name == "" {
			return fmt.Errorf("tool %q has an argument without a name: %w", t.Name, ErrConfig)
		}
	}
	return nil
}

// Registry is an insertion-ordered catalog of tools. It is built once
// at startup and read-only afterwards, so it may be shared freely
// between planners and loop controllers.
type Registry struct {
	byName map[string]Tool
	order  []string
}

// NewRegistry builds a Registry from tool definitions in load order.
// A later definition with a duplicate name replaces the earlier one
// without changing its position in the overview order.
func NewRegistry(tools []Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, seen := r.byName[t.Name]; !seen {
			r.order = append(r.order, t.Name)
		}
		r.byName[t.Name] = t
	}
	return r
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Tools returns the catalog in load order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
