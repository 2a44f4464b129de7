package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// HistoryIDCompleter returns a ShellCompleteFunc that suggests recorded run
// IDs as positional completions. Set this as the ShellComplete field on any
// cli.Command that accepts history run IDs as arguments.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func HistoryIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.History == nil {
			return
		}

		entries, err := flags.History.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, e := range entries {
			_, _ = fmt.Fprintln(w, shortID(e.ID))
		}
	}
}
