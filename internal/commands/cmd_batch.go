package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/pkg/iojson"
	"github.com/colonyops/runbook/pkg/logutils"
	"github.com/colonyops/runbook/pkg/randid"
	"github.com/colonyops/runbook/pkg/shellexec"
)

type BatchCmd struct {
	flags *Flags
	fr    *iojson.FileReader[BatchInput]

	// Command-specific flags
	workers    int
	dir        string
	noProgress bool
	noSummary  bool
	format     string
}

func NewBatchCmd(flags *Flags) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Run multiple commands in parallel",
		UsageText: `runbook batch [options] [command...]

Run from arguments:
  runbook batch 'echo one' 'echo two' 'sleep 1'

Read from stdin:
  echo '{"commands": ["echo one", "false"]}' | runbook batch

Read from file:
  runbook batch -f commands.json`,
		Description: `Executes the given commands concurrently with a bounded worker pool.
Every command runs in capture mode with exit checking disabled, so one
failing command never stops the batch; failures surface through the
per-command results.

Each positional argument is one complete command line. Without
arguments, a JSON document {"commands": ["..."]} is read from the -f
file or piped stdin. Commands must be distinct: results are keyed by
the command string, so textual duplicates would collapse into a single
entry.

A progress bar tracks completions on a terminal. When the log level is
info or lower, a per-command summary follows, framing each command's
output. Batch lifecycle events are also logged to a dedicated file
under the data directory.

Exits 1 if any command failed.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"w"},
				Usage:       "maximum concurrent commands (defaults to runner.max_workers)",
				Destination: &cmd.workers,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "working directory applied to every command",
				Destination: &cmd.dir,
			},
			&cli.BoolFlag{
				Name:        "no-progress",
				Usage:       "disable the progress display",
				Destination: &cmd.noProgress,
			},
			&cli.BoolFlag{
				Name:        "no-summary",
				Usage:       "skip the per-command summary",
				Destination: &cmd.noSummary,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	con := console.Ctx(ctx)

	input, err := cmd.readInput(c)
	if err != nil {
		return cmd.inputError(fmt.Errorf("read input: %w", err))
	}
	if err := input.Validate(); err != nil {
		return cmd.inputError(fmt.Errorf("invalid input: %w", err))
	}

	batchID := randid.Generate(6)
	logFile := filepath.Join(cmd.flags.Config.LogsDir(), "batch-"+batchID+".log")

	logger, closer, err := logutils.New(cmd.flags.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("setup batch logger: %w", err)
	}
	defer closer()

	logger.Info().Str("batch_id", batchID).Int("commands", len(input.Commands)).Msg("starting batch")

	workers := cmd.flags.Config.Runner.MaxWorkers
	if cmd.workers > 0 {
		workers = cmd.workers
	}

	var tracker *console.Tracker
	if !cmd.noProgress && cmd.format != "json" {
		tracker = con.NewTracker("Running commands", len(input.Commands))
	}

	start := time.Now()
	results := cmd.flags.Runner.RunParallel(ctx, input.Commands, shellexec.ParallelOptions{
		MaxWorkers: workers,
		Dir:        cmd.dir,
		OnComplete: func(command string, res shellexec.Result) {
			logger.Info().Str("command", command).Int("exit_code", res.ExitCode).Msg("command finished")
			if tracker != nil {
				tracker.Advance(command)
			}
		},
	})
	if tracker != nil {
		tracker.Wait()
	}

	failed := 0
	for _, res := range results {
		if !res.Success() {
			failed++
		}
	}

	logger.Info().
		Int("total", len(results)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch complete")

	if cmd.format == "json" {
		return cmd.outputJSON(c, batchID, logFile, results, failed)
	}

	if !cmd.noSummary && con.Verbose() {
		cmd.summarize(con, input.Commands, results)
	}

	if failed > 0 {
		con.Errorf("%d of %d commands failed", failed, len(results))
		return cli.Exit("", 1)
	}

	con.Successf("%d commands completed", len(results))
	return nil
}

// readInput takes commands from argv when present, otherwise from the
// JSON file or piped stdin.
func (cmd *BatchCmd) readInput(c *cli.Command) (BatchInput, error) {
	if c.Args().Len() > 0 {
		return BatchInput{Commands: c.Args().Slice()}, nil
	}
	return cmd.fr.Read()
}

// inputError reports a bad batch specification: a structured error
// envelope on stderr in JSON format, the plain error in text format.
func (cmd *BatchCmd) inputError(err error) error {
	if cmd.format != "json" {
		return err
	}
	if werr := iojson.WriteError(err.Error(), nil); werr != nil {
		return werr
	}
	return cli.Exit("", 1)
}

// summarize prints one status line per command in input order, framing
// the relevant output underneath: stdout on success, stderr on failure,
// empty streams skipped.
func (cmd *BatchCmd) summarize(con *console.Console, commands []string, results map[string]shellexec.Result) {
	for _, command := range commands {
		res, ok := results[command]
		if !ok {
			continue
		}

		if res.Success() {
			con.PrintLine(fmt.Sprintf(" ╰──▹ %s '%s'", con.Paint(shellexec.MoodSuccess, "✔"), command))
			if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
				con.Frame(out, "Output of: "+command, shellexec.MoodInfo)
			}
			continue
		}

		con.PrintLine(fmt.Sprintf(" ╰──▹ %s '%s'", con.Paint(shellexec.MoodError, "✖"), command))
		if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
			con.Frame(errOut, "Error from: "+command, shellexec.MoodError)
		}
	}
}

func (cmd *BatchCmd) outputJSON(c *cli.Command, batchID, logFile string, results map[string]shellexec.Result, failed int) error {
	out := BatchOutput{
		BatchID: batchID,
		LogFile: logFile,
		Total:   len(results),
		Failed:  failed,
		Results: results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// BatchInput is the JSON input schema for batch execution.
type BatchInput struct {
	Commands []string `json:"commands"`
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Commands) == 0 {
		return criterio.NewFieldErrors("commands", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)

	for i, command := range b.Commands {
		field := fmt.Sprintf("commands[%d]", i)

		if strings.TrimSpace(command) == "" {
			errs = errs.Append(field, fmt.Errorf("command is empty"))
			continue
		}

		if seen[command] {
			errs = errs.Append(field, fmt.Errorf("duplicate command %q", command))
			continue
		}
		seen[command] = true
	}

	return errs.ToError()
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID string                      `json:"batch_id"`
	LogFile string                      `json:"log_file"`
	Total   int                         `json:"total"`
	Failed  int                         `json:"failed"`
	Results map[string]shellexec.Result `json:"results"`
}
