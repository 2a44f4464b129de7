package shellexec

import (
	"context"
	"sync"
)

// DefaultMaxWorkers bounds concurrent executions when ParallelOptions
// does not say otherwise.
const DefaultMaxWorkers = 4

// ParallelOptions control a RunParallel batch.
type ParallelOptions struct {
	// MaxWorkers bounds concurrent executions. Zero or negative means
	// DefaultMaxWorkers.
	MaxWorkers int
	// Dir is the working directory applied to every command. Empty
	// means inherit the current directory.
	Dir string
	// OnComplete, when set, is called once per command as it finishes,
	// after its result is recorded. Calls are serialized.
	OnComplete func(command string, res Result)
}

// RunParallel executes commands concurrently with a bounded worker pool
// and blocks until all of them have finished. Every command runs in
// capture mode with checking disabled, so failures are reported through
// Result.ExitCode and a command that cannot be spawned is recorded as a
// synthetic failure rather than aborting the batch.
//
// The result map is keyed by the original command strings. Commands that
// are textually identical necessarily collapse into a single entry; no
// ordering across commands is guaranteed.
func (r *Runner) RunParallel(ctx context.Context, commands []string, opts ParallelOptions) map[string]Result {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	results := make(map[string]Result, len(commands))
	var mu sync.Mutex
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, command := range commands {
		wg.Add(1)
		go func(command string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.Run(ctx, command, Options{
				Mode:    ModeCapture,
				NoCheck: true,
				Dir:     opts.Dir,
			})
			if err != nil {
				// Spawn failures still produce an entry so one bad
				// command cannot sink the batch.
				res = Result{
					Stderr:   err.Error(),
					ExitCode: 1,
					PID:      SyntheticPID,
				}
				r.Log.Error().Err(err).Str("command", command).Msg("parallel command failed to start")
			}

			mu.Lock()
			results[command] = res
			if opts.OnComplete != nil {
				opts.OnComplete(command, res)
			}
			mu.Unlock()
		}(command)
	}
	wg.Wait()

	return results
}
