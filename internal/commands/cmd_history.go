package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/history"
	"github.com/colonyops/runbook/pkg/shellexec"
	"github.com/colonyops/runbook/pkg/strutil"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	list   bool
	replay bool
	clear  bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List, replay, or clear recorded runs",
		UsageText: "runbook history [options] [replay-id]",
		Description: `Shows the recorded command history or replays an entry.

Replay re-executes the stored command line through the runner with the
configured defaults:
  runbook history --replay        # replay the last failed run
  runbook history --replay <id>   # replay a specific run

Without flags the history table is shown. The IDs in the table are
prefixes; any unambiguous prefix selects an entry.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "list",
				Aliases:     []string{"l"},
				Usage:       "list recorded runs",
				Destination: &cmd.list,
			},
			&cli.BoolFlag{
				Name:        "replay",
				Aliases:     []string{"r"},
				Usage:       "replay a run (last failed if no ID given)",
				Destination: &cmd.replay,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "remove all recorded runs",
				Destination: &cmd.clear,
			},
		},
		ShellComplete: HistoryIDCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	con := console.Ctx(ctx)

	flagCount := 0
	for _, set := range []bool{cmd.list, cmd.replay, cmd.clear} {
		if set {
			flagCount++
		}
	}
	if flagCount > 1 {
		return fmt.Errorf("only one of --list, --replay, or --clear can be used")
	}

	switch {
	case cmd.replay:
		return cmd.runReplay(ctx, c, con)
	case cmd.clear:
		return cmd.runClear(ctx, con)
	default:
		return cmd.runList(ctx, c, con)
	}
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command, con *console.Console) error {
	entries, err := cmd.flags.History.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		con.Info("No recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCOMMAND\tSTATUS\tTIME")

	for _, e := range entries {
		status := "ok"
		if e.Failed() {
			status = fmt.Sprintf("failed (%d)", e.ExitCode)
		}

		// Multi-line commands collapse onto one row.
		command := strutil.Clean(e.Command)
		if len(command) > 50 {
			command = command[:47] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			command,
			status,
			e.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// shortID trims a UUID to the prefix shown in the table; the store
// resolves any unambiguous prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (cmd *HistoryCmd) runClear(ctx context.Context, con *console.Console) error {
	if err := cmd.flags.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	con.Success("Command history cleared")
	return nil
}

func (cmd *HistoryCmd) runReplay(ctx context.Context, c *cli.Command, con *console.Console) error {
	var entry history.Entry
	var err error

	replayID := c.Args().First()
	if replayID == "" {
		entry, err = cmd.flags.History.LastFailed(ctx)
		if errors.Is(err, history.ErrNotFound) {
			con.Info("No failed runs in history")
			return nil
		}
		if err != nil {
			return fmt.Errorf("get last failed: %w", err)
		}
	} else {
		entry, err = cmd.flags.History.Get(ctx, replayID)
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("run %q not found in history", replayID)
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
	}

	con.Infof("Replaying: %s", entry.Command)

	opts := shellexec.Options{Mode: cmd.flags.Config.OutputMode()}
	res, runErr := cmd.flags.Runner.Run(ctx, entry.Command, opts)

	return finishRun(ctx, cmd.flags, con, entry.Command, res, runErr, true)
}
