package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/treasury-data/internal/server"
)

type serveCmd struct {
	noRunner bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API and the scheduled daily update" }
func (*serveCmd) Usage() string {
	return `ust serve [-no-runner]

  Serves the HTTP API and, unless -no-runner is set, runs the daily update
  window every runner.interval until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noRunner, "no-runner", false, "serve the API only")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	metricsPath := ""
	if a.cfg.MetricsEnabled() {
		metricsPath = a.cfg.Metrics.Path
	}
	srv := server.New(server.Config{
		Port:         a.cfg.Server.Port,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		MetricsPath:  metricsPath,
	}, a.pool, a.reads, a.updater, a.metrics, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if !c.noRunner {
		g.Go(func() error {
			if err := a.runner.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return a.runner.Stop(stopCtx)
		})
	}

	a.logger.Info("ust serving",
		"port", a.cfg.Server.Port,
		"runner", !c.noRunner,
		"health_url", fmt.Sprintf("http://localhost:%d/health", a.cfg.Server.Port),
	)

	if err := g.Wait(); err != nil {
		a.logger.Error("serve stopped", "error", err)
		return subcommands.ExitFailure
	}
	a.logger.Info("shutdown complete")
	return subcommands.ExitSuccess
}
