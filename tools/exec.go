package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"
)

// ExitNotFound is reported when the executable could not be started.
const ExitNotFound = 127

// Result holds the outcome of an external command.
type Result struct {
	ExitCode int
	Output   []byte
}

// ExecRunner runs external commands on the host.
type ExecRunner struct {
	// Env is appended to the inherited environment.
	Env []string

	// Stream, when set, receives combined output as it is produced.
	Stream io.Writer
}

// NewExecRunner returns an ExecRunner with an inherited environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args inside dir and waits for it to exit. A
// non-nil error means the process could not be started or ctx ended it; a
// process that ran and failed only yields a non-zero Result.ExitCode.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (*Result, error) {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	if r.Stream != nil {
		cmd.Stdout = io.MultiWriter(&out, r.Stream)
	} else {
		cmd.Stdout = &out
	}
	cmd.Stderr = cmd.Stdout

	err := cmd.Run()
	res := &Result{Output: out.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = ExitStatus(exitErr.ProcessState)
		return res, nil
	}

	// killed through ctx: the process ran, but Run reports the context error
	if cmd.ProcessState != nil {
		res.ExitCode = ExitStatus(cmd.ProcessState)
		return res, err
	}

	res.ExitCode = ExitNotFound
	return res, err
}

// ExitStatus maps a finished process state to a shell-style exit status:
// the exit code, or 128 plus the signal number when the process was killed.
func ExitStatus(state interface {
	ExitCode() int
	Sys() any
}) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
