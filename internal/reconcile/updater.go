package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/treasury-data/internal/metrics"
	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/reference"
	"github.com/rickgao/treasury-data/internal/treasury"
)

// Store is the persistence the state machine needs.
type Store interface {
	DateRecord(ctx context.Context, date time.Time) (*model.DateRecord, error)
	MarkDate(ctx context.Context, date time.Time, confirmed bool) error
	Prices(ctx context.Context, date time.Time) ([]model.PriceObservation, error)
	ReplacePrices(ctx context.Context, date time.Time, rows []model.PriceObservation) error
}

// Fetcher downloads the published snapshot of a date. It returns
// treasury.ErrNoData when nothing was published.
type Fetcher interface {
	FetchDailyPrices(ctx context.Context, date time.Time) ([]model.PriceObservation, error)
}

// ReferenceBackfiller makes sure stored CUSIPs get a reference.
type ReferenceBackfiller interface {
	EnsureReferences(ctx context.Context, rows []model.PriceObservation) (reference.Summary, error)
}

// Outcome is what Update did to a date.
type Outcome string

const (
	NoData           Outcome = "no_data"           // nothing published, nothing recorded
	Inserted         Outcome = "inserted"          // first data for an unseen date
	AlreadyConfirmed Outcome = "already_confirmed" // confirmed dates are final
	Replaced         Outcome = "replaced"          // refetched data differed and replaced the stored rows
	Unchanged        Outcome = "unchanged"         // refetched data matched, or nothing was returned
)

// Result describes one Update call.
type Result struct {
	Date      time.Time
	Before    model.DateState
	Outcome   Outcome
	Confirmed bool // date is confirmed after the call
	Rows      int  // rows stored for the date after the call
}

// Config holds the reconciliation thresholds.
type Config struct {
	ConfirmLagDays int     // Age at which a date is final regardless of prices
	PriceFloor     float64 // End-of-day prices at or below this count as unpriced
	Epsilon        float64 // Tolerance of the snapshot equality rule
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		ConfirmLagDays: 7,
		PriceFloor:     0.01,
		Epsilon:        1e-6,
	}
}

// Updater runs the state machine for single dates.
type Updater struct {
	cfg        Config
	store      Store
	fetcher    Fetcher
	references ReferenceBackfiller
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Updater.
type Option func(*Updater)

// WithClock sets the clock used to age dates.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		u.now = now
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(u *Updater) {
		u.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUpdater creates an Updater. references may be nil.
func NewUpdater(cfg Config, store Store, fetcher Fetcher, references ReferenceBackfiller, opts ...Option) *Updater {
	u := &Updater{
		cfg:        cfg,
		store:      store,
		fetcher:    fetcher,
		references: references,
		logger:     slog.Default(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Update brings one date forward through the state machine.
func (u *Updater) Update(ctx context.Context, date time.Time) (Result, error) {
	date = model.Day(date)
	res, err := u.update(ctx, date)
	u.metrics.ObserveUpdate(string(res.Outcome), res.Confirmed && res.Before != model.Confirmed, err)
	if err != nil {
		return res, fmt.Errorf("update %s: %w", date.Format(time.DateOnly), err)
	}

	u.logger.Info("date updated",
		"date", date.Format(time.DateOnly),
		"state", res.Before,
		"outcome", res.Outcome,
		"confirmed", res.Confirmed,
		"rows", res.Rows,
	)
	return res, nil
}

func (u *Updater) update(ctx context.Context, date time.Time) (Result, error) {
	res := Result{Date: date}

	rec, err := u.store.DateRecord(ctx, date)
	if err != nil {
		return res, fmt.Errorf("load date record: %w", err)
	}
	res.Before = model.StateOf(rec)

	switch res.Before {
	case model.Confirmed:
		res.Outcome = AlreadyConfirmed
		res.Confirmed = true
		return res, nil
	case model.Unseen:
		return u.insert(ctx, res)
	default:
		return u.refresh(ctx, res)
	}
}

// insert stores the first snapshot of an unseen date. Any rows left by an
// earlier run that died before recording the date are replaced.
func (u *Updater) insert(ctx context.Context, res Result) (Result, error) {
	rows, err := u.fetch(ctx, res.Date)
	if errors.Is(err, treasury.ErrNoData) {
		res.Outcome = NoData
		return res, nil
	}
	if err != nil {
		return res, err
	}

	if err := u.store.ReplacePrices(ctx, res.Date, rows); err != nil {
		return res, fmt.Errorf("store prices: %w", err)
	}
	u.backfill(ctx, rows)

	res.Outcome = Inserted
	res.Rows = len(rows)
	return u.mark(ctx, res, rows)
}

// refresh refetches a provisional date and replaces the stored rows if they
// changed.
func (u *Updater) refresh(ctx context.Context, res Result) (Result, error) {
	fresh, err := u.fetch(ctx, res.Date)
	noData := errors.Is(err, treasury.ErrNoData)
	if err != nil && !noData {
		return res, err
	}

	stored, err := u.store.Prices(ctx, res.Date)
	if err != nil {
		return res, fmt.Errorf("load stored prices: %w", err)
	}

	current := stored
	res.Outcome = Unchanged
	switch {
	case noData:
		u.logger.Warn("provisional date refetch returned no data, keeping stored rows",
			"date", res.Date.Format(time.DateOnly),
			"rows", len(stored),
		)
	case !Equal(fresh, stored, u.cfg.Epsilon):
		if err := u.store.ReplacePrices(ctx, res.Date, fresh); err != nil {
			return res, fmt.Errorf("replace prices: %w", err)
		}
		current = fresh
		res.Outcome = Replaced
	}

	u.backfill(ctx, current)
	res.Rows = len(current)
	return u.mark(ctx, res, current)
}

func (u *Updater) fetch(ctx context.Context, date time.Time) ([]model.PriceObservation, error) {
	start := time.Now()
	rows, err := u.fetcher.FetchDailyPrices(ctx, date)
	u.metrics.ObserveFetch(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, treasury.ErrNoData) {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	if err == nil && len(rows) == 0 {
		return nil, treasury.ErrNoData
	}
	return rows, err
}

// mark records the date with its confirmability as of now.
func (u *Updater) mark(ctx context.Context, res Result, rows []model.PriceObservation) (Result, error) {
	confirmed := Confirmable(res.Date, rows, u.now(), u.cfg.ConfirmLagDays, u.cfg.PriceFloor)
	if err := u.store.MarkDate(ctx, res.Date, confirmed); err != nil {
		return res, fmt.Errorf("mark date: %w", err)
	}
	res.Confirmed = confirmed
	return res, nil
}

func (u *Updater) backfill(ctx context.Context, rows []model.PriceObservation) {
	if u.references == nil || len(rows) == 0 {
		return
	}
	if _, err := u.references.EnsureReferences(ctx, rows); err != nil {
		u.logger.Warn("reference backfill failed", "error", err)
	}
}
