package shellexec

import "fmt"

// SyntheticPID marks a Result that was produced without spawning a
// process, such as a dry run or a command that failed to start.
const SyntheticPID = -1

// Result is the outcome of one command execution. Results are plain
// values owned by the caller; the runner never retains or mutates them.
type Result struct {
	// Stdout is the captured standard output text.
	Stdout string `json:"stdout"`
	// Stderr is the captured standard error text.
	Stderr string `json:"stderr"`
	// ExitCode is the process termination status. Zero means success.
	ExitCode int `json:"exit_code"`
	// PID is the OS process id, or SyntheticPID when no process was
	// created.
	PID int `json:"pid"`
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// OutputMode selects how a command's output is handled while it runs and
// after it completes.
type OutputMode int

const (
	// ModeStream relays output lines to the runner's writers as they
	// arrive, while also capturing them. After completion a blank
	// separator line is presented if either stream produced content.
	ModeStream OutputMode = iota
	// ModeFrame captures output silently, then presents one framed box
	// when the command completes: stdout on success, stderr on failure.
	// Empty streams are not framed.
	ModeFrame
	// ModeCapture captures output without displaying anything.
	ModeCapture
	// ModeSilent behaves like ModeCapture, and additionally signals
	// callers to skip any completion summary they would present.
	ModeSilent
)

var modeNames = map[OutputMode]string{
	ModeStream:  "stream",
	ModeFrame:   "frame",
	ModeCapture: "capture",
	ModeSilent:  "silent",
}

func (m OutputMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("OutputMode(%d)", int(m))
}

// ParseOutputMode maps a mode name to its OutputMode.
func ParseOutputMode(name string) (OutputMode, error) {
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return ModeStream, fmt.Errorf("unknown output mode: %q", name)
}

// Options control a single command execution. The zero value gives the
// default policy: stream mode, checking enabled, no dry run, inherited
// working directory.
type Options struct {
	// Mode selects output handling. Defaults to ModeStream.
	Mode OutputMode
	// NoCheck disables exit-status checking. By default a non-zero exit
	// becomes an *ExitError; with NoCheck the status is reported through
	// Result.ExitCode instead.
	NoCheck bool
	// DryRun announces the command without spawning a process and
	// returns a synthetic success Result.
	DryRun bool
	// Dir is the working directory for the command. Empty means inherit
	// the current directory.
	Dir string
}
