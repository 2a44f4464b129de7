package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/doctor"
	"github.com/colonyops/runbook/pkg/iojson"
	"github.com/colonyops/runbook/pkg/shellexec"
)

type DoctorCmd struct {
	flags *Flags

	// Command-specific flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

// Register adds the doctor command to the application
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your runbook setup",
		UsageText:   "runbook doctor [options]",
		Description: "Runs diagnostic checks on configuration, environment, and dependencies.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "fix fixable issues (e.g., create the data directory)",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	checks := []doctor.Check{
		doctor.NewToolsCheck(cfg.Doctor.Tools),
		doctor.NewDataDirCheck(cfg.DataDir, cmd.fix),
		doctor.NewConfigCheck(cmd.flags.ConfigPath, cfg.DataDir),
		doctor.NewNetworkCheck(),
		doctor.NewTerminalCheck(),
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(ctx, results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(ctx context.Context, results []doctor.Result) error {
	con := console.Ctx(ctx)

	con.Line()
	con.PrintLine(con.Bold("Runbook Doctor"))
	con.Rule()
	con.Line()

	for _, result := range results {
		con.PrintLine(con.Bold(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + con.Muted(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = con.Paint(shellexec.MoodSuccess, "✔")
			case doctor.StatusWarn:
				icon = con.Paint(shellexec.MoodWarning, "●")
			case doctor.StatusFail:
				icon = con.Paint(shellexec.MoodError, "✘")
			}

			con.PrintLine(fmt.Sprintf("  %s %s%s", icon, item.Label, detail))
		}

		con.Line()
	}

	passed, warned, failed := doctor.Summary(results)
	con.PrintLine(fmt.Sprintf("%s  %s  %s",
		con.Paint(shellexec.MoodSuccess, fmt.Sprintf("%d passed", passed)),
		con.Paint(shellexec.MoodWarning, fmt.Sprintf("%d warnings", warned)),
		con.Paint(shellexec.MoodError, fmt.Sprintf("%d failed", failed)),
	))

	if !cmd.fix {
		if fixable := doctor.CountFixable(results); fixable > 0 {
			con.Line()
			con.PrintLine(con.Muted(fmt.Sprintf("Run 'runbook doctor --fix' to fix %d issue(s)", fixable)))
		}
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
