package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/rickgao/treasury-data/internal/database"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create the price, confirmation and reference tables" }
func (*migrateCmd) Usage() string {
	return `ust migrate

  Creates the tables and indexes if they do not exist. Safe to rerun.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := database.Migrate(ctx, a.pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	a.logger.Info("schema up to date", "statements", len(database.Schema))
	return subcommands.ExitSuccess
}
