// Package npm wraps the external npm and node-gyp invocations.
package npm

import (
	"context"
	"io"
	"os/exec"
)

// Runner runs an external command rooted at dir, streaming its output.
// The child gets its own working directory; the parent's is never changed.
type Runner interface {
	Run(ctx context.Context, dir, bin string, args ...string) error
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner. The call blocks until the child exits.
func (r *ExecRunner) Run(ctx context.Context, dir, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
