package shellexec

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Handle tracks a process started with RunBackground. The caller owns
// the handle and should eventually call Wait to reap the process.
type Handle struct {
	pid  int
	done chan struct{}
	code int
	err  error
}

// newDoneHandle builds a handle for a process that has already finished,
// such as a dry run.
func newDoneHandle(pid, code int, err error) *Handle {
	h := &Handle{pid: pid, done: make(chan struct{}), code: code, err: err}
	close(h.done)
	return h
}

// PID returns the OS process id, or SyntheticPID for a handle that never
// spawned a process.
func (h *Handle) PID() int { return h.pid }

// Wait blocks until the process exits and returns its exit code. It is
// safe to call from multiple goroutines, and keeps returning the recorded
// code after the process has exited.
func (h *Handle) Wait() (int, error) {
	<-h.done
	return h.code, h.err
}

// Poll reports whether the process has exited without blocking. The exit
// code is meaningful only when done is true.
func (h *Handle) Poll() (code int, done bool) {
	select {
	case <-h.done:
		return h.code, true
	default:
		return 0, false
	}
}

// RunBackground starts a command and returns a Handle without waiting
// for completion. Output is not captured: it goes to the runner's
// writers, or nowhere in ModeSilent. Other mode values are ignored. A
// dry run returns an already-exited synthetic handle.
func (r *Runner) RunBackground(ctx context.Context, command string, opts Options) (*Handle, error) {
	if opts.DryRun {
		r.Log.Info().Str("command", command).Msg("dry run, skipping execution")
		r.presenter().PrintLine("[dry-run] would execute: " + command)
		return newDoneHandle(SyntheticPID, 0, nil), nil
	}

	argv, err := splitCommand(command)
	if err != nil {
		return nil, err
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts.Dir != "" {
		c.Dir = opts.Dir
	}
	if opts.Mode != ModeSilent {
		c.Stdout = r.stdout()
		c.Stderr = r.stderr()
	}

	if err := c.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: argv[0], Err: err}
		}
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	h := &Handle{pid: c.Process.Pid, done: make(chan struct{})}
	r.Log.Debug().Str("command", command).Int("pid", h.pid).Msg("background process started")

	// Reap in a dedicated goroutine so Wait and Poll never race on the
	// underlying process state.
	go func() {
		waitErr := c.Wait()
		h.code = c.ProcessState.ExitCode()
		var exitErr *exec.ExitError
		if waitErr != nil && !errors.As(waitErr, &exitErr) {
			h.err = waitErr
		}
		close(h.done)
	}()

	return h, nil
}
