package jj

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gerunddev/jjnav/jj/internal/trace"
)

// Result holds the outcome of a single jj invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner executes the jj binary with an argument vector and blocks
// until it exits. Implementations must be safe for use from tea.Cmd
// goroutines.
type CommandRunner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// Runner is the production CommandRunner backed by os/exec.
type Runner struct {
	// Dir is the repository path commands run in. Empty means current dir.
	Dir string
}

// NewRunner creates a Runner rooted at the given repository path.
func NewRunner(repoPath string) *Runner {
	return &Runner{Dir: repoPath}
}

// Run executes `jj args...` and waits for completion. On nonzero exit the
// returned error carries the captured stderr; the Result is still populated
// so callers can inspect partial output. Commands are never retried: a
// mutating jj operation repeated after a partial failure has different
// semantics than the first attempt.
func (r *Runner) Run(ctx context.Context, args ...string) (Result, error) {
	done := trace.Command(args)

	cmd := exec.CommandContext(ctx, "jj", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		runErr := fmt.Errorf("jj %s: %s", strings.Join(args, " "), commandError(res.Stderr, err))
		done(runErr)
		return res, runErr
	}

	done(nil)
	return res, nil
}

// commandError prefers jj's stderr over the raw exec error, since stderr is
// what the user needs to see.
func commandError(stderr string, err error) string {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return err.Error()
	}
	return msg
}
