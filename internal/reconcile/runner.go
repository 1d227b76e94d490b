package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/treasury-data/internal/model"
)

// DateUpdater updates one date.
type DateUpdater interface {
	Update(ctx context.Context, date time.Time) (Result, error)
}

// RunnerConfig holds runner configuration.
type RunnerConfig struct {
	ConfirmLagDays int           // Same lag as the updater
	LookbackDays   int           // Extra days scanned behind the lag window
	Pause          time.Duration // Sleep between dates
	Interval       time.Duration // Period of the scheduled loop
}

// DefaultRunnerConfig returns sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		ConfirmLagDays: 7,
		LookbackDays:   10,
		Pause:          500 * time.Millisecond,
		Interval:       6 * time.Hour,
	}
}

// RunSummary counts the outcomes of one run.
type RunSummary struct {
	RunID    string
	Dates    int
	Outcomes map[Outcome]int
	Failed   int
}

// Runner walks dates through an Updater serially.
type Runner struct {
	cfg     RunnerConfig
	updater DateUpdater
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig, updater DateUpdater, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:     cfg,
		updater: updater,
		logger:  logger,
		now:     time.Now,
	}
}

// Window returns the default daily range ending today: far enough back to
// revisit every date that may still be provisional.
func (r *Runner) Window(today time.Time) (from, to time.Time) {
	to = model.Day(today)
	from = to.AddDate(0, 0, -(r.cfg.ConfirmLagDays + r.cfg.LookbackDays))
	return from, to
}

// RunRange updates every calendar date from..to inclusive. A failing date is
// logged and skipped; all failures are returned joined.
func (r *Runner) RunRange(ctx context.Context, from, to time.Time) (RunSummary, error) {
	from, to = model.Day(from), model.Day(to)
	sum := RunSummary{
		RunID:    uuid.NewString(),
		Outcomes: make(map[Outcome]int),
	}
	if to.Before(from) {
		return sum, fmt.Errorf("invalid range: %s after %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	logger := r.logger.With("run_id", sum.RunID)
	logger.Info("run started",
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly),
	)
	start := time.Now()

	var errs []error
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if date.After(from) && r.cfg.Pause > 0 {
			select {
			case <-ctx.Done():
				return sum, errors.Join(append(errs, ctx.Err())...)
			case <-time.After(r.cfg.Pause):
			}
		}
		if err := ctx.Err(); err != nil {
			return sum, errors.Join(append(errs, err)...)
		}

		sum.Dates++
		res, err := r.updater.Update(ctx, date)
		if err != nil {
			logger.Warn("date update failed",
				"date", date.Format(time.DateOnly),
				"error", err,
			)
			sum.Failed++
			errs = append(errs, err)
			continue
		}
		sum.Outcomes[res.Outcome]++
	}

	logger.Info("run complete",
		"dates", sum.Dates,
		"inserted", sum.Outcomes[Inserted],
		"replaced", sum.Outcomes[Replaced],
		"unchanged", sum.Outcomes[Unchanged],
		"confirmed", sum.Outcomes[AlreadyConfirmed],
		"no_data", sum.Outcomes[NoData],
		"failed", sum.Failed,
		"duration", time.Since(start),
	)
	return sum, errors.Join(errs...)
}

// Start begins the scheduled loop: one run over the daily window now and
// then every Interval.
func (r *Runner) Start(ctx context.Context) error {
	if r.cfg.Interval <= 0 {
		return fmt.Errorf("runner interval must be positive, got %s", r.cfg.Interval)
	}
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("scheduled runner started", "interval", r.cfg.Interval)
	return nil
}

// Stop cancels the loop and waits for the current run to end.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("scheduled runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.runWindow()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runWindow()
		}
	}
}

func (r *Runner) runWindow() {
	from, to := r.Window(r.now())
	// Failures are already logged per date.
	_, _ = r.RunRange(r.ctx, from, to)
}
