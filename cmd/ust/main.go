// Command ust ingests daily U.S. Treasury prices from TreasuryDirect,
// reconciles them into PostgreSQL and computes yields from stored prices.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "configs/ust.local.yaml", "path to config file")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ust")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&updateCmd{}, "ingest")
	commander.Register(&serveCmd{}, "ingest")
	commander.Register(&migrateCmd{}, "ingest")
	commander.Register(&pricesCmd{}, "read")
	commander.Register(&curveCmd{}, "read")
	commander.Register(&yieldCmd{}, "read")
	commander.Register(&versionCmd{}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
