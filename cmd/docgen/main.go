// Command docgen generates CLI reference documentation from the runbook
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "runbook",
		Usage:     "Run commands without a shell: single, parallel, or background",
		UsageText: "runbook [global options] command [command options]",
		Description: `Runbook executes commands directly, without passing them through a
shell. Command lines are split with shell quoting rules, so
metacharacters, globs, and variables are never interpreted, and output
handling follows an explicit mode: stream, frame, capture, or silent.

Run 'runbook run' for a single command, 'runbook batch' for many in
parallel, and 'runbook new' to scaffold a new script project.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("RUNBOOK_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file",
				Sources: cli.EnvVars("RUNBOOK_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("RUNBOOK_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("RUNBOOK_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only show warnings and errors on the console",
				Sources: cli.EnvVars("RUNBOOK_QUIET"),
			},
		},
	}

	root = commands.NewRunCmd(flags).Register(root)
	root = commands.NewBatchCmd(flags).Register(root)
	root = commands.NewNewCmd(flags).Register(root)
	root = commands.NewHistoryCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags).Register(root)
	root = commands.NewCheckCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
