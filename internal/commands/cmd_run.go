package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/history"
	"github.com/colonyops/runbook/pkg/shellexec"
	"github.com/colonyops/runbook/pkg/tmpl"
)

type RunCmd struct {
	flags *Flags

	// Command-specific flags
	output     string
	noCheck    bool
	dryRun     bool
	dir        string
	background bool
	wait       bool
	vars       []string
	noHistory  bool
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Execute a command without invoking a shell",
		UsageText: "runbook run [options] [--] <command...>",
		Description: `Executes a command directly, without a shell. The command line is
split into words with shell quoting rules, so metacharacters, globs,
and variables are never expanded.

Pass the command as one quoted string or as plain arguments:
  runbook run 'grep -r "TODO" src'
  runbook run -- ls -la /tmp

Output modes:
  stream   relay output live while keeping a captured copy (default)
  frame    capture, then display a framed box on completion
  capture  capture silently and print the captured stdout at the end
  silent   capture silently and print nothing

With --var the command line is first rendered as a Go template over the
configured vars plus the given key=value pairs:
  runbook run --var host=prod.example.com 'ssh {{ .host }} uptime'

Completed foreground runs are recorded to history; replay them with
'runbook history --replay'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output mode (stream, frame, capture, silent)",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "no-check",
				Usage:       "exit 0 even when the command fails",
				Destination: &cmd.noCheck,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the command instead of executing it",
				Destination: &cmd.dryRun,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "working directory for the command",
				Destination: &cmd.dir,
			},
			&cli.BoolFlag{
				Name:        "background",
				Aliases:     []string{"b"},
				Usage:       "start the command and return immediately",
				Destination: &cmd.background,
			},
			&cli.BoolFlag{
				Name:        "wait",
				Usage:       "with --background, block until the command finishes",
				Destination: &cmd.wait,
			},
			&cli.StringSliceFlag{
				Name:        "var",
				Usage:       "template variable as key=value (repeatable, enables template rendering)",
				Destination: &cmd.vars,
			},
			&cli.BoolFlag{
				Name:        "no-history",
				Usage:       "do not record this run in history",
				Destination: &cmd.noHistory,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	con := console.Ctx(ctx)

	command, err := cmd.commandLine(c)
	if err != nil {
		return err
	}

	mode := cmd.flags.Config.OutputMode()
	if cmd.output != "" {
		mode, err = shellexec.ParseOutputMode(cmd.output)
		if err != nil {
			return err
		}
	}

	opts := shellexec.Options{
		Mode:    mode,
		NoCheck: cmd.noCheck,
		DryRun:  cmd.dryRun,
		Dir:     cmd.dir,
	}

	if cmd.background {
		return cmd.runBackground(ctx, con, command, opts)
	}

	res, runErr := cmd.flags.Runner.Run(ctx, command, opts)

	// Captured stdout flows to the process stdout even on failure, so
	// output stays pipeable like a direct invocation.
	if mode == shellexec.ModeCapture && res.Stdout != "" {
		fmt.Fprint(c.Root().Writer, res.Stdout)
	}

	record := !cmd.noHistory && !cmd.dryRun
	return finishRun(ctx, cmd.flags, con, command, res, runErr, record)
}

func (cmd *RunCmd) runBackground(ctx context.Context, con *console.Console, command string, opts shellexec.Options) error {
	handle, err := cmd.flags.Runner.RunBackground(ctx, command, opts)
	if err != nil {
		var nfErr *shellexec.NotFoundError
		if errors.As(err, &nfErr) {
			con.Error(err.Error())
			return cli.Exit("", 1)
		}
		return err
	}

	if cmd.dryRun {
		return nil
	}

	con.Infof("started %s (pid %d)", command, handle.PID())

	if !cmd.wait {
		return nil
	}

	code, err := handle.Wait()
	if err != nil {
		return fmt.Errorf("wait for background command: %w", err)
	}
	if code != 0 && !cmd.noCheck {
		con.Errorf("command failed with exit code %d: %s", code, command)
		return cli.Exit("", code)
	}

	return nil
}

// finishRun records a completed foreground execution and maps the error
// class to console alerts and exit codes: spawn failures exit 1, a
// checked non-zero exit mirrors the child's code. Shared with history
// replay.
func finishRun(ctx context.Context, flags *Flags, con *console.Console, command string, res shellexec.Result, runErr error, record bool) error {
	var nfErr *shellexec.NotFoundError
	var exitErr *shellexec.ExitError

	switch {
	case runErr == nil:
		if record {
			saveEntry(ctx, flags, command, res.ExitCode, nil)
		}
		return nil

	case errors.As(runErr, &nfErr):
		if record {
			saveEntry(ctx, flags, command, 1, runErr)
		}
		con.Error(runErr.Error())
		return cli.Exit("", 1)

	case errors.As(runErr, &exitErr):
		if record {
			saveEntry(ctx, flags, command, exitErr.ExitCode, runErr)
		}
		con.Error(runErr.Error())
		return cli.Exit("", exitErr.ExitCode)

	default:
		// Tokenization and spawn plumbing errors: nothing ran, nothing
		// to record.
		return runErr
	}
}

// saveEntry writes one history entry. A store failure is logged, never
// fatal.
func saveEntry(ctx context.Context, flags *Flags, command string, exitCode int, runErr error) {
	entry := history.NewEntry(command, exitCode, runErr)
	if err := flags.History.Save(ctx, entry, flags.Config.History.MaxEntries); err != nil {
		log.Warn().Err(err).Msg("failed to record history entry")
	}
}

// commandLine assembles the command string from the positional args and
// renders it as a template when --var values were given.
func (cmd *RunCmd) commandLine(c *cli.Command) (string, error) {
	args := c.Args().Slice()
	if len(args) == 0 {
		_ = cli.ShowSubcommandHelp(c)
		return "", shellexec.ErrEmptyCommand
	}

	command := args[0]
	if len(args) > 1 {
		command = shellexec.JoinArgs(args)
	}

	if len(cmd.vars) == 0 {
		return command, nil
	}

	vars, err := cmd.templateVars()
	if err != nil {
		return "", err
	}

	rendered, err := tmpl.Render(command, vars)
	if err != nil {
		return "", fmt.Errorf("render command template: %w", err)
	}

	return rendered, nil
}

// templateVars merges the config vars (files first, inline on top) under
// the --var pairs.
func (cmd *RunCmd) templateVars() (map[string]any, error) {
	vars, err := cmd.flags.Config.LoadVars(cmd.flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config vars: %w", err)
	}

	for _, pair := range cmd.vars {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[key] = value
	}

	return vars, nil
}
