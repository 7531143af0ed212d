// Package invoke translates canonical action payloads into external
// process invocations with captured output.
package invoke

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mwielosz/quest"
)

// DefaultTimeout bounds a single tool invocation. A hung external
// program becomes an observation instead of stalling the run forever.
const DefaultTimeout = 2 * time.Minute

// Compile-time interface check.
var _ quest.ToolRunner = (*Runner)(nil)

// Runner executes tools as external processes. All failure modes —
// missing required arguments, start failure, non-zero exit, timeout —
// are reported as observation strings so the loop can feed them back
// to the planner.
type Runner struct {
	timeout time.Duration
	exec    execFunc
}

// execFunc runs a program and reports captured output and exit status.
// It is a seam for tests; the default implementation starts a real
// process.
type execFunc func(ctx context.Context, name string, args []string) (stdout, stderr string, exitCode int, err error)

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
		exec:    runProcess,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Command builds the full argument vector for a tool invocation,
// program first. The tool's argument schema is the single source of
// truth for translation:
//
//   - schema arguments present in a structured payload are emitted in
//     schema order, each preceded by its option token when it has one;
//   - payload keys the schema does not know about follow, in payload
//     order, keeping forward compatibility with newer tools;
//   - list payloads emit one token per element, raw payloads a single
//     token, empty payloads nothing.
func Command(tool quest.Tool, payload quest.Payload) []string {
	argv := []string{tool.InvocationPath}

	switch p := payload.(type) {
	case quest.StructuredPayload:
		known := make(map[string]bool, len(tool.Arguments))
		for _, arg := range tool.Arguments {
			known[arg.Name] = true
			value, ok := p.Get(arg.Name)
			if !ok {
				continue
			}
			if arg.Option != "" {
				argv = append(argv, arg.Option)
			}
			argv = appendValue(argv, value)
		}
		for _, f := range p.Fields {
			if known[f.Name] {
				continue
			}
			argv = appendValue(argv, f.Value)
		}
	case quest.ListPayload:
		for _, item := range p.Items {
			argv = appendValue(argv, item)
		}
	case quest.RawPayload:
		if p.Text != "" {
			argv = append(argv, p.Text)
		}
	case quest.EmptyPayload:
		// Nothing to add.
	}
	return argv
}

func appendValue(argv []string, v quest.Value) []string {
	switch val := v.(type) {
	case quest.Scalar:
		return append(argv, val.Text)
	case quest.Sequence:
		return append(argv, val.Items...)
	}
	return argv
}

// Invoke executes the tool against the payload and returns the
// observation text. A structured payload missing required arguments
// short-circuits without starting a process.
func (r *Runner) Invoke(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
	if structured, ok := payload.(quest.StructuredPayload); ok {
		if missing := missingArguments(tool, structured); len(missing) > 0 {
			return "Missing required arguments: " + strings.Join(missing, ", ")
		}
	}

	argv := Command(tool, payload)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout, stderr, exitCode, err := r.exec(ctx, argv[0], argv[1:])

	if err != nil && ctx.Err() != nil {
		verb := "was cancelled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			verb = fmt.Sprintf("timed out after %s", r.timeout)
		}
		obs := fmt.Sprintf("tool %s %s", tool.Name, verb)
		if partial := clean(stdout + stderr); partial != "" {
			obs += "\npartial output:\n" + partial
		}
		return obs
	}

	if err != nil && exitCode < 0 {
		// The process never produced an exit status (e.g. the program
		// could not be started at all).
		return fmt.Sprintf("failed to run %s: %v", tool.Name, err)
	}

	if exitCode != 0 {
		return clean(stderr)
	}
	return clean(stdout)
}

// missingArguments lists required schema arguments absent from the
// payload, in schema order.
func missingArguments(tool quest.Tool, p quest.StructuredPayload) []string {
	var missing []string
	for _, arg := range tool.Arguments {
		if !arg.Required {
			continue
		}
		if _, ok := p.Get(arg.Name); !ok {
			missing = append(missing, arg.Name)
		}
	}
	return missing
}

// clean prepares captured output for use as an observation.
func clean(s string) string {
	s = strings.TrimSpace(Sanitize(s))
	return Truncate(s, MaxObservationLines, MaxObservationBytes)
}

// runProcess starts the program in its own process group so a timeout
// kills the whole tree, not just the direct child.
func runProcess(ctx context.Context, name string, args []string) (string, string, int, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdout := NewCollector(MaxCaptureBytes)
	stderr := NewCollector(MaxCaptureBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitCode = -1
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			// A process killed by a signal has no exit status; report it
			// shell-style so the caller sees a completed run, not a start
			// failure.
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				exitCode = 128 + int(status.Signal())
			}
		}
	}
	return stdout.String(), stderr.String(), exitCode, err
}
