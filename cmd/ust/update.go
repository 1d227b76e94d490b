package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/rickgao/treasury-data/internal/reconcile"
)

type updateCmd struct {
	from string
	to   string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch and reconcile prices for a range of dates" }
func (*updateCmd) Usage() string {
	return `ust update [-from <date>] [-to <date>]

  Runs every date from -from to -to (inclusive) through the confirmation
  state machine. Without -from, starts far enough back to revisit every date
  that may still be provisional. -to defaults to today.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "last date (YYYY-MM-DD, default today)")
}

func (c *updateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := parseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	from, _ := a.runner.Window(to)
	if c.from != "" {
		if from, err = parseDate(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	sum, err := a.runner.RunRange(ctx, from, to)
	fmt.Printf("run %s: %d dates, %d inserted, %d replaced, %d unchanged, %d already confirmed, %d without data, %d failed\n",
		sum.RunID, sum.Dates,
		sum.Outcomes[reconcile.Inserted], sum.Outcomes[reconcile.Replaced], sum.Outcomes[reconcile.Unchanged],
		sum.Outcomes[reconcile.AlreadyConfirmed], sum.Outcomes[reconcile.NoData], sum.Failed)
	if err != nil {
		a.logger.Error("update finished with failures", "error", err, "from", from.Format(time.DateOnly))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
