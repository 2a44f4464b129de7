package shellexec

import (
	"context"
	"sync"
)

// RecordedRun captures a command that was executed.
type RecordedRun struct {
	Command    string
	Opts       Options
	Background bool
}

// RecordingRunner captures commands for testing.
// Configure Results and Errors maps to control return values.
type RecordingRunner struct {
	mu   sync.Mutex
	Runs []RecordedRun

	// Results maps command strings to their Result.
	Results map[string]Result

	// Errors maps command strings to their error.
	Errors map[string]error
}

var _ CommandRunner = (*RecordingRunner)(nil)

// Run records the command and returns the configured result and error.
// Both come back as configured, matching the real runner's contract: a
// checked failure still carries its captured output.
func (r *RecordingRunner) Run(ctx context.Context, command string, opts Options) (Result, error) {
	return r.record(command, opts, false)
}

// RunParallel records every command and builds the result map the way
// the real runner would: configured errors become synthetic failure
// entries instead of aborting the batch. Commands run sequentially so
// tests stay deterministic.
func (r *RecordingRunner) RunParallel(ctx context.Context, commands []string, opts ParallelOptions) map[string]Result {
	results := make(map[string]Result, len(commands))
	for _, command := range commands {
		res, err := r.record(command, Options{Mode: ModeCapture, NoCheck: true, Dir: opts.Dir}, false)
		if err != nil {
			res = Result{Stderr: err.Error(), ExitCode: 1, PID: SyntheticPID}
		}
		results[command] = res
		if opts.OnComplete != nil {
			opts.OnComplete(command, res)
		}
	}
	return results
}

// RunBackground records the command and returns an already-exited handle
// carrying the configured result's PID and exit code.
func (r *RecordingRunner) RunBackground(ctx context.Context, command string, opts Options) (*Handle, error) {
	res, err := r.record(command, opts, true)
	if err != nil {
		return nil, err
	}
	return newDoneHandle(res.PID, res.ExitCode, nil), nil
}

func (r *RecordingRunner) record(command string, opts Options, background bool) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Runs = append(r.Runs, RecordedRun{
		Command:    command,
		Opts:       opts,
		Background: background,
	})

	var res Result
	var err error

	if r.Results != nil {
		res = r.Results[command]
	}
	if r.Errors != nil {
		err = r.Errors[command]
	}

	return res, err
}

// Reset clears recorded runs.
func (r *RecordingRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Runs = nil
}
