package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/scaffold"
	"github.com/colonyops/runbook/pkg/logutils"
)

type NewCmd struct {
	flags *Flags

	// Command-specific flags
	dest       string
	components []string
	force      bool
	yes        bool
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Scaffold a script project",
		UsageText: "runbook new [options] [name]",
		Description: `Creates a script project from the bundled templates: an executable
entrypoint named after the project, a shell logging library, and a
logging config pointing at logs/<name>.log.jsonl.

Components select which template sets are rendered (see --component);
defaults come from scaffold.default_components in the config.

The destination must not already contain the project directory. With
--force, files are written into the existing directory and any
overwritten YAML configs are backed up first.

When the name is omitted on a terminal, an interactive wizard collects
the project settings.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dest",
				Aliases:     []string{"D"},
				Usage:       "parent directory for the project (defaults to scaffold.projects_dir)",
				Destination: &cmd.dest,
			},
			&cli.StringSliceFlag{
				Name:        "component",
				Aliases:     []string{"C"},
				Usage:       "template component to include (repeatable)",
				Destination: &cmd.components,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "write into an existing directory, backing up overwritten configs",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "never prompt; fail when required input is missing",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	con := console.Ctx(ctx)

	author := cmd.flags.Config.Scaffold.Author
	if author == "" {
		author = os.Getenv("USER")
	}

	builder := &scaffold.Builder{
		Author: author,
		Log:    logutils.Component(log.Logger, "scaffold"),
	}

	name := c.Args().First()

	components := cmd.components
	if len(components) == 0 {
		components = cmd.flags.Config.Scaffold.DefaultComponents
	}

	dest := cmd.dest
	if dest == "" {
		dest = cmd.flags.Config.ProjectsDir()
	}

	if name == "" {
		if cmd.yes || !con.Interactive() {
			_ = cli.ShowSubcommandHelp(c)
			return fmt.Errorf("project name required")
		}

		var err error
		name, components, err = cmd.runWizard(con, builder, components)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("wizard: %w", err)
		}
	}

	projectDir, err := builder.Build(name, dest, components, cmd.force)
	if err != nil {
		return err
	}

	con.Successf("Project %s created", name)
	cmd.nextSteps(con, name, projectDir)

	return nil
}

func (cmd *NewCmd) runWizard(con *console.Console, builder *scaffold.Builder, preselected []string) (string, []string, error) {
	name, err := con.Prompt("Project name", console.PromptOptions{
		Description: "Used as the directory and entrypoint script name",
		Placeholder: "backup-tool",
		Validate:    scaffold.ValidateName,
	})
	if err != nil {
		return "", nil, err
	}

	components, err := con.MultiSelect("Components", builder.Components(), preselected)
	if err != nil {
		return "", nil, err
	}
	if len(components) == 0 {
		return "", nil, fmt.Errorf("select at least one component")
	}

	return name, components, nil
}

// nextSteps renders the post-create guidance. A rendering failure falls
// back to the plain text.
func (cmd *NewCmd) nextSteps(con *console.Console, name, projectDir string) {
	md := fmt.Sprintf(`# Your new project is ready

Created at %[1]s

To get started, run:

    cd %[1]s
    ./%[2]s.sh -v

Script logs land in logs/%[2]s.log.jsonl as JSON lines.
`, projectDir, name)

	if err := con.Markdown(md); err != nil {
		con.PrintLine(md)
	}
}
