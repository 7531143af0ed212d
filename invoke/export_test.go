package invoke

import "context"

// SetExec replaces the process-start seam for tests.
func (r *Runner) SetExec(fn func(ctx context.Context, name string, args []string) (string, string, int, error)) {
	r.exec = fn
}
