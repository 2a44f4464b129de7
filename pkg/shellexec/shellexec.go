// Package shellexec runs commands without a shell. Command lines are
// split into argv words with quoting rules, then executed directly, so
// shell metacharacters are never interpreted. Output handling, exit
// status policy, bounded parallel dispatch, and background execution are
// all options on a single Runner.
package shellexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// CommandRunner is the execution surface callers program against.
// *Runner is the real implementation; RecordingRunner is the test double.
type CommandRunner interface {
	// Run executes a command and blocks until it completes.
	Run(ctx context.Context, command string, opts Options) (Result, error)
	// RunParallel executes commands concurrently with a bounded worker
	// pool and returns a result per distinct command string.
	RunParallel(ctx context.Context, commands []string, opts ParallelOptions) map[string]Result
	// RunBackground starts a command and returns without waiting.
	RunBackground(ctx context.Context, command string, opts Options) (*Handle, error)
}

// Runner executes shell commands. The zero value is usable: streamed
// output goes to os.Stdout and os.Stderr, frames and separators are
// dropped, diagnostics are discarded.
type Runner struct {
	// Stdout and Stderr receive live output lines in ModeStream.
	Stdout io.Writer
	Stderr io.Writer

	// Presenter receives framed output and separator lines. Nil means
	// no presentation.
	Presenter Presenter

	// Log receives execution diagnostics.
	Log zerolog.Logger
}

var _ CommandRunner = (*Runner)(nil)

// Run executes a command with a zero-value Runner. It is a convenience
// for callers that want capture semantics without wiring a Runner.
func Run(ctx context.Context, command string, opts Options) (Result, error) {
	return (&Runner{}).Run(ctx, command, opts)
}

// Run executes one command and blocks until it completes. The Result is
// meaningful when err is nil or an *ExitError; ExitError carries the same
// captured output a NoCheck call would have returned.
func (r *Runner) Run(ctx context.Context, command string, opts Options) (Result, error) {
	if opts.DryRun {
		r.Log.Info().Str("command", command).Msg("dry run, skipping execution")
		r.presenter().PrintLine("[dry-run] would execute: " + command)
		return Result{PID: SyntheticPID}, nil
	}

	argv, err := splitCommand(command)
	if err != nil {
		return Result{}, err
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts.Dir != "" {
		c.Dir = opts.Dir
	}

	stdoutPipe, err := c.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("pipe stdout: %w", err)
	}
	stderrPipe, err := c.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("pipe stderr: %w", err)
	}

	if err := c.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return Result{}, &NotFoundError{Name: argv[0], Err: err}
		}
		return Result{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	pid := c.Process.Pid

	r.Log.Debug().Str("command", command).Int("pid", pid).Msg("process started")

	// Each pipe gets its own reader so neither stream can stall the
	// other once a pipe buffer fills.
	var stdoutBuf, stderrBuf strings.Builder
	var echoOut, echoErr io.Writer
	if opts.Mode == ModeStream {
		echoOut, echoErr = r.stdout(), r.stderr()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		drain(stdoutPipe, &stdoutBuf, echoOut)
	}()
	go func() {
		defer wg.Done()
		drain(stderrPipe, &stderrBuf, echoErr)
	}()
	wg.Wait()

	waitErr := c.Wait()
	res := Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: c.ProcessState.ExitCode(),
		PID:      pid,
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return res, fmt.Errorf("wait %s: %w", argv[0], waitErr)
	}

	switch opts.Mode {
	case ModeStream:
		if res.Stdout != "" || res.Stderr != "" {
			r.presenter().PrintLine("")
		}
	case ModeFrame:
		r.frame(command, res)
	}

	if !opts.NoCheck && res.ExitCode != 0 {
		return res, &ExitError{
			Command:  command,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			err:      waitErr,
		}
	}
	return res, nil
}

// frame presents the completed command's relevant stream: stdout under a
// success title, stderr under a failure title. Empty streams are skipped.
func (r *Runner) frame(command string, res Result) {
	if res.Success() {
		if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
			r.presenter().Frame(out, "Output of: "+command, MoodInfo)
		}
		return
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		r.presenter().Frame(errOut, "Error from: "+command, MoodError)
	}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Runner) presenter() Presenter {
	if r.Presenter != nil {
		return r.Presenter
	}
	return nopPresenter{}
}

// splitCommand tokenizes a command line into argv words. Quoting is
// honored; metacharacters, globs, and variables are not expanded.
func splitCommand(command string) ([]string, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// bareWord matches words that need no quoting when joined back into a
// command line.
var bareWord = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// JoinArgs assembles argv words into a command line that tokenizes back
// to the same words. Words outside the safe character set are
// single-quoted with embedded quotes escaped.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteWord(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteWord(word string) string {
	if word == "" {
		return "''"
	}
	if bareWord.MatchString(word) {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

// drain reads one stream line by line, accumulating into buf and echoing
// to echo when set. Line terminators are preserved, so the accumulated
// text is byte-identical to what the process wrote.
func drain(r io.Reader, buf *strings.Builder, echo io.Writer) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			buf.WriteString(line)
			if echo != nil {
				io.WriteString(echo, line) //nolint:errcheck
			}
		}
		if err != nil {
			return
		}
	}
}
