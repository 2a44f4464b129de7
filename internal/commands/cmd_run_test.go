package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/config"
	"github.com/colonyops/runbook/internal/store/jsonfile"
	"github.com/colonyops/runbook/pkg/shellexec"
)

// testApp wires a command under test with a recording runner, default
// config, and a file-backed history store in a temp dir. Console output
// lands in con, primary output in out.
type testApp struct {
	app    *cli.Command
	flags  *Flags
	runner *shellexec.RecordingRunner
	out    *bytes.Buffer
	con    *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	ta := &testApp{
		runner: &shellexec.RecordingRunner{},
		out:    &bytes.Buffer{},
		con:    &bytes.Buffer{},
	}

	ta.flags = &Flags{
		LogLevel: "info",
		DataDir:  cfg.DataDir,
		Config:   &cfg,
		Runner:   ta.runner,
		History:  jsonfile.NewHistoryStore(cfg.HistoryPath()),
	}

	ta.app = &cli.Command{
		Name:   "runbook",
		Writer: ta.out,
		// Hand exit-coder errors back to the caller instead of the
		// default os.Exit handling, so tests can assert on them.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	return ta
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()

	con := console.New(ta.con, zerolog.InfoLevel, console.DefaultTheme)
	ctx := console.WithContext(context.Background(), con)

	return ta.app.Run(ctx, append([]string{"runbook"}, args...))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	return coder.ExitCode()
}

func TestRunCmd_Success(t *testing.T) {
	ta := newTestApp(t)
	ta.runner.Results = map[string]shellexec.Result{
		"echo hello": {Stdout: "hello\n", PID: 42},
	}
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "echo hello")
	require.NoError(t, err)

	require.Len(t, ta.runner.Runs, 1)
	rec := ta.runner.Runs[0]
	assert.Equal(t, "echo hello", rec.Command)
	assert.Equal(t, shellexec.ModeStream, rec.Opts.Mode, "config default mode")
	assert.False(t, rec.Opts.NoCheck)
	assert.False(t, rec.Background)

	entries, err := ta.flags.History.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "echo hello", entries[0].Command)
	assert.Equal(t, 0, entries[0].ExitCode)
}

func TestRunCmd_JoinsMultipleArgs(t *testing.T) {
	ta := newTestApp(t)
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "--", "cp", "my file.txt", "dest")
	require.NoError(t, err)

	require.Len(t, ta.runner.Runs, 1)
	assert.Equal(t, "cp 'my file.txt' dest", ta.runner.Runs[0].Command)
}

func TestRunCmd_OutputFlagOverridesConfig(t *testing.T) {
	ta := newTestApp(t)
	ta.runner.Results = map[string]shellexec.Result{
		"printf hi": {Stdout: "hi"},
	}
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "-o", "capture", "printf hi")
	require.NoError(t, err)

	require.Len(t, ta.runner.Runs, 1)
	assert.Equal(t, shellexec.ModeCapture, ta.runner.Runs[0].Opts.Mode)
	assert.Equal(t, "hi", ta.out.String(), "captured stdout goes to primary output")
}

func TestRunCmd_CapturePrintsStdoutOnFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.runner.Results = map[string]shellexec.Result{
		"flaky-tool": {Stdout: "partial\n", Stderr: "boom\n", ExitCode: 3, PID: 10},
	}
	ta.runner.Errors = map[string]error{
		"flaky-tool": &shellexec.ExitError{Command: "flaky-tool", ExitCode: 3},
	}
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "-o", "capture", "flaky-tool")

	assert.Equal(t, 3, exitCode(t, err), "exit code mirrors the child")
	assert.Equal(t, "partial\n", ta.out.String(), "captured stdout still printed")

	entries, listErr := ta.flags.History.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].ExitCode)
}

func TestRunCmd_NotFound(t *testing.T) {
	ta := newTestApp(t)
	ta.runner.Errors = map[string]error{
		"no-such-tool": &shellexec.NotFoundError{Name: "no-such-tool"},
	}
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "no-such-tool")

	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, ta.con.String(), "command not found: no-such-tool")

	entries, listErr := ta.flags.History.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, entries, 1, "spawn failures are recorded too")
	assert.Equal(t, 1, entries[0].ExitCode)
}

func TestRunCmd_NoHistorySkipsRecording(t *testing.T) {
	ta := newTestApp(t)
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "--no-history", "echo hello")
	require.NoError(t, err)

	entries, err := ta.flags.History.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCmd_DryRunSkipsRecording(t *testing.T) {
	ta := newTestApp(t)
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run", "--dry-run", "echo hello")
	require.NoError(t, err)

	require.Len(t, ta.runner.Runs, 1)
	assert.True(t, ta.runner.Runs[0].Opts.DryRun)

	entries, err := ta.flags.History.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCmd_EmptyCommand(t *testing.T) {
	ta := newTestApp(t)
	NewRunCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "run")
	assert.ErrorIs(t, err, shellexec.ErrEmptyCommand)
	assert.Empty(t, ta.runner.Runs)
}

func TestRunCmd_TemplateVars(t *testing.T) {
	t.Run("renders when --var is given", func(t *testing.T) {
		ta := newTestApp(t)
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "--var", "host=prod.example.com", "ssh {{ .host }} uptime")
		require.NoError(t, err)

		require.Len(t, ta.runner.Runs, 1)
		assert.Equal(t, "ssh prod.example.com uptime", ta.runner.Runs[0].Command)
	})

	t.Run("cli pairs override config vars", func(t *testing.T) {
		ta := newTestApp(t)
		ta.flags.Config.Vars = map[string]any{"host": "staging", "port": 22}
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "--var", "host=prod", "ssh -p {{ .port }} {{ .host }}")
		require.NoError(t, err)

		require.Len(t, ta.runner.Runs, 1)
		assert.Equal(t, "ssh -p 22 prod", ta.runner.Runs[0].Command)
	})

	t.Run("without --var braces pass through verbatim", func(t *testing.T) {
		ta := newTestApp(t)
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "docker inspect --format {{.State.Pid}} web")
		require.NoError(t, err)

		require.Len(t, ta.runner.Runs, 1)
		assert.Equal(t, "docker inspect --format {{.State.Pid}} web", ta.runner.Runs[0].Command)
	})

	t.Run("malformed pair is rejected", func(t *testing.T) {
		ta := newTestApp(t)
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "--var", "oops", "echo {{ .oops }}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected key=value")
		assert.Empty(t, ta.runner.Runs)
	})
}

func TestRunCmd_Background(t *testing.T) {
	t.Run("starts and reports pid", func(t *testing.T) {
		ta := newTestApp(t)
		ta.runner.Results = map[string]shellexec.Result{
			"sleep 60": {PID: 99},
		}
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "-b", "sleep 60")
		require.NoError(t, err)

		require.Len(t, ta.runner.Runs, 1)
		assert.True(t, ta.runner.Runs[0].Background)
		assert.Contains(t, ta.con.String(), "pid 99")

		entries, listErr := ta.flags.History.List(context.Background())
		require.NoError(t, listErr)
		assert.Empty(t, entries, "background runs are not recorded")
	})

	t.Run("wait propagates a failing exit code", func(t *testing.T) {
		ta := newTestApp(t)
		ta.runner.Results = map[string]shellexec.Result{
			"failing-job": {PID: 7, ExitCode: 2},
		}
		NewRunCmd(ta.flags).Register(ta.app)

		err := ta.run(t, "run", "-b", "--wait", "failing-job")
		assert.Equal(t, 2, exitCode(t, err))
	})
}
