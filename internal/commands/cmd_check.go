package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/runbook/internal/console"
	"github.com/colonyops/runbook/internal/core/checks"
)

// checkKinds maps a kind name to its validator. kindOrder fixes the
// order shown in help and error text.
var (
	checkKinds = map[string]func(string) bool{
		"email":   checks.IsEmail,
		"ipv4":    checks.IsIPv4,
		"ipv6":    checks.IsIPv6,
		"fqdn":    checks.IsFQDN,
		"numeric": checks.IsNumeric,
		"command": checks.CommandExists,
	}
	kindOrder = []string{"email", "ipv4", "ipv6", "fqdn", "numeric", "command"}
)

type CheckCmd struct {
	flags *Flags
}

func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Validate values against common formats",
		UsageText: "runbook check <kind> <value>...",
		Description: `Validates each value against the named check and prints a line per
value. Exits non-zero when any value fails.

Kinds: ` + strings.Join(kindOrder, ", ") + `.

  runbook check email ops@example.com
  runbook check command git docker kubectl`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	con := console.Ctx(ctx)

	if c.Args().Len() < 2 {
		_ = cli.ShowSubcommandHelp(c)
		return fmt.Errorf("a check kind and at least one value are required")
	}

	kind := c.Args().First()
	verify, ok := checkKinds[kind]
	if !ok {
		return fmt.Errorf("unknown check %q, expected one of: %s", kind, strings.Join(kindOrder, ", "))
	}

	failed := 0
	for _, value := range c.Args().Slice()[1:] {
		if verify(value) {
			con.Successf("%s: valid %s", value, kind)
		} else {
			con.Errorf("%s: not a valid %s", value, kind)
			failed++
		}
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
