package archive

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner abstracts child-process invocation so tests can inject a fake.
type Runner interface {
	// Run executes name with args, optionally in dir, and returns the
	// captured stdout and stderr. A nonzero exit status is returned as err.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
