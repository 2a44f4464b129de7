package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/commands"
	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/config"
	"github.com/colonyops/runbook/internal/store/jsonfile"
	"github.com/colonyops/runbook/pkg/logutils"
	"github.com/colonyops/runbook/pkg/shellexec"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "runbook",
		Usage:     "Run commands without a shell: single, parallel, or background",
		UsageText: "runbook [global options] command [command options]",
		Description: `Runbook executes commands directly, without passing them through a
shell. Command lines are split with shell quoting rules, so
metacharacters, globs, and variables are never interpreted, and output
handling follows an explicit mode: stream, frame, capture, or silent.

Run 'runbook run' for a single command, 'runbook batch' for many in
parallel, and 'runbook new' to scaffold a new script project.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("RUNBOOK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("RUNBOOK_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("RUNBOOK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("RUNBOOK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "only show warnings and errors on the console",
				Sources:     cli.EnvVars("RUNBOOK_QUIET"),
				Destination: &flags.Quiet,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so console output stays clean.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "runbook.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			level, err := zerolog.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("parse log level: %w", err)
			}
			if flags.Quiet && level < zerolog.WarnLevel {
				level = zerolog.WarnLevel
			}

			// The console falls back to the default theme on its own;
			// surface the bad name so the config gets fixed.
			_, themeKnown := console.GetPalette(cfg.Theme)

			con := console.New(os.Stderr, level, cfg.Theme)
			if !themeKnown {
				con.Warningf("unknown theme %q, using %s", cfg.Theme, console.DefaultTheme)
				log.Warn().Str("theme", cfg.Theme).Msg("unknown theme, using default")
			}
			ctx = console.WithContext(ctx, con)

			flags.Runner = &shellexec.Runner{
				Presenter: con,
				Log:       logutils.Component(log.Logger, "runner"),
			}
			flags.History = jsonfile.NewHistoryStore(cfg.HistoryPath())

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewRunCmd(flags).Register(app)
	app = commands.NewBatchCmd(flags).Register(app)
	app = commands.NewNewCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewCheckCmd(flags).Register(app)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'runbook --help' for usage", c.Args().First())
		}
		return cli.ShowSubcommandHelp(c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
