package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/treasury-data/internal/analytics"
	"github.com/rickgao/treasury-data/internal/config"
	"github.com/rickgao/treasury-data/internal/database"
	"github.com/rickgao/treasury-data/internal/metrics"
	"github.com/rickgao/treasury-data/internal/reconcile"
	"github.com/rickgao/treasury-data/internal/reference"
	"github.com/rickgao/treasury-data/internal/store"
	"github.com/rickgao/treasury-data/internal/treasury"
	"github.com/rickgao/treasury-data/internal/version"
)

// app wires the components every database-backed command needs.
type app struct {
	cfg     *config.UpdaterConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	pool    *pgxpool.Pool
	store   *store.Store
	client  *treasury.Client
	updater *reconcile.Updater
	runner  *reconcile.Runner
	reads   *analytics.Service
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func setup(ctx context.Context, command string) (*app, error) {
	logger := newLogger()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger = logger.With("instance_id", cfg.Instance.ID)

	logger.Info("starting ust",
		"command", command,
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		store:  store.New(pool, logger),
	}
	if cfg.MetricsEnabled() {
		a.metrics = metrics.New(cfg.Instance.ID)
	}

	a.client = treasury.NewClient(
		cfg.API.PricesURL,
		cfg.API.SecuritiesURL,
		treasury.WithLogger(logger),
		treasury.WithTimeout(cfg.API.Timeout),
		treasury.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		treasury.WithUserAgent(cfg.API.UserAgent),
	)

	resolver := reference.NewResolver(a.store, a.client, a.metrics, logger)
	a.updater = reconcile.NewUpdater(
		reconcile.Config{
			ConfirmLagDays: cfg.Reconcile.ConfirmLagDays,
			PriceFloor:     cfg.Reconcile.PriceFloor,
			Epsilon:        cfg.Reconcile.Epsilon,
		},
		a.store, a.client, resolver,
		reconcile.WithLogger(logger),
		reconcile.WithMetrics(a.metrics),
	)
	a.runner = reconcile.NewRunner(reconcile.RunnerConfig{
		ConfirmLagDays: cfg.Reconcile.ConfirmLagDays,
		LookbackDays:   cfg.Runner.LookbackDays,
		Pause:          cfg.Runner.Pause,
		Interval:       cfg.Runner.Interval,
	}, a.updater, logger)
	a.reads = analytics.NewService(a.store, a.metrics, logger)

	return a, nil
}

func (a *app) Close() {
	a.pool.Close()
}

// parseDate accepts YYYY-MM-DD and YYYYMMDD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.DateOnly, "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}
