package shellexec

import (
	"errors"
	"fmt"
)

// ErrEmptyCommand reports a command line with no words after tokenization.
// It is returned before any process is spawned.
var ErrEmptyCommand = errors.New("empty command")

// NotFoundError reports a command that could not be spawned because the
// executable (or the requested working directory) does not exist. No
// process was created, so there is no exit code to report. It is returned
// regardless of the NoCheck option.
type NotFoundError struct {
	// Name is the first word of the command line.
	Name string
	// Err is the underlying spawn error. It wraps exec.ErrNotFound when
	// the executable was not on PATH.
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError reports a command that ran to completion with a non-zero exit
// code. It is returned only when checking is enabled, and carries the same
// captured output a NoCheck call would have returned in its Result.
type ExitError struct {
	// Command is the original command line.
	Command string
	// ExitCode is the process termination status.
	ExitCode int
	// Stdout and Stderr hold the captured output up to termination.
	Stdout string
	Stderr string

	err error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Command)
}

// Unwrap exposes the underlying *exec.ExitError so callers can reach
// process state with errors.As.
func (e *ExitError) Unwrap() error { return e.err }
