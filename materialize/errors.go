package materialize

import (
	"errors"
	"fmt"
)

// FilesystemError is returned when a directory or file cannot be created or
// written: permission denied, disk full, invalid path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when an append or merge target is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no such file", e.Path)
}

// ExternalToolError is returned when an external command exits non-zero or
// cannot be started.
type ExternalToolError struct {
	Command  string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ExternalToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (exit status %d)", e.Command, e.Err, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// StepError identifies the plan step that stopped an execution.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit status: 0 for nil, the tool's
// status for an ExternalToolError anywhere in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var toolErr *ExternalToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		return toolErr.ExitCode
	}
	return 1
}
