// Package inspect extracts fact sets from artifacts. Every external query
// (package listing tools, the installer database, the payload extractor, the
// signature verifier, the container runtime) is modeled as an injected
// capability so tests can substitute fakes without invoking real OS tooling.
package inspect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"shipcheck/internal/artifact"
)

// ToolError reports a failed external capability invocation. It is fatal to
// the owning artifact's remaining static checks but not to the run.
type ToolError struct {
	Format   artifact.Format
	Tool     string
	ExitCode int
	Detail   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("inspection tool %s failed for %s artifact (exit %d)", e.Tool, e.Format, e.ExitCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Invocation is the captured outcome of one external tool invocation.
type Invocation struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Runner invokes external tools as blocking subprocess calls.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Invocation
}

// ExecRunner is the real Runner. Each invocation gets an explicit timeout;
// expiry surfaces as a non-nil Err with exit code -1.
type ExecRunner struct {
	Timeout time.Duration
}

const defaultInvocationTimeout = 5 * time.Minute

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) Invocation {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultInvocationTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv := Invocation{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return inv
	}

	inv.Err = err
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	case runCtx.Err() == context.DeadlineExceeded:
		inv.Err = fmt.Errorf("%s timed out after %v", name, timeout)
		inv.ExitCode = -1
	default:
		inv.ExitCode = -1
	}
	return inv
}
