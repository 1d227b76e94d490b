package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/model"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DB = (*pgxpool.Pool)(nil)

// Store is the PostgreSQL implementation of the price, date and reference stores.
type Store struct {
	db     DB
	logger *slog.Logger
}

// New creates a Store.
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// -----------------------------------------------------------------------------
// Date confirmation
// -----------------------------------------------------------------------------

// DateRecord returns the record for date, or nil when the date is unseen.
func (s *Store) DateRecord(ctx context.Context, date time.Time) (*model.DateRecord, error) {
	rec := model.DateRecord{Date: model.Day(date)}
	err := s.db.QueryRow(ctx,
		`SELECT confirmed FROM date_confirmation WHERE price_date = $1`,
		rec.Date,
	).Scan(&rec.Confirmed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get date record: %w", err)
	}
	return &rec, nil
}

// MarkDate upserts the confirmation flag. An existing true flag is kept.
func (s *Store) MarkDate(ctx context.Context, date time.Time, confirmed bool) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO date_confirmation (price_date, confirmed)
		VALUES ($1, $2)
		ON CONFLICT (price_date) DO UPDATE
		SET confirmed = date_confirmation.confirmed OR EXCLUDED.confirmed,
		    updated_at = now()
	`, model.Day(date), confirmed)
	if err != nil {
		return fmt.Errorf("mark date: %w", err)
	}
	return nil
}

// DateRecords lists the records between from and to inclusive.
func (s *Store) DateRecords(ctx context.Context, from, to time.Time) ([]model.DateRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT price_date, confirmed FROM date_confirmation
		WHERE price_date BETWEEN $1 AND $2
		ORDER BY price_date
	`, model.Day(from), model.Day(to))
	if err != nil {
		return nil, fmt.Errorf("list date records: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DateRecord, error) {
		var rec model.DateRecord
		err := row.Scan(&rec.Date, &rec.Confirmed)
		rec.Date = model.Day(rec.Date)
		return rec, err
	})
}

// -----------------------------------------------------------------------------
// Prices
// -----------------------------------------------------------------------------

// Prices returns the stored rows for date ordered by CUSIP.
func (s *Store) Prices(ctx context.Context, date time.Time) ([]model.PriceObservation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cusip, price_date, buy::text, sell::text, end_of_day::text
		FROM price_data
		WHERE price_date = $1
		ORDER BY cusip
	`, model.Day(date))
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	prices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PriceObservation, error) {
		var p priceRow
		if err := row.Scan(&p.CUSIP, &p.Date, &p.Buy, &p.Sell, &p.EndOfDay); err != nil {
			return model.PriceObservation{}, err
		}
		return p.toModel()
	})
	if err != nil {
		return nil, fmt.Errorf("scan prices: %w", err)
	}
	return prices, nil
}

// ReplacePrices deletes every row of date and inserts rows, in one transaction.
func (s *Store) ReplacePrices(ctx context.Context, date time.Time, prices []model.PriceObservation) (err error) {
	date = model.Day(date)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	deleted, err := tx.Exec(ctx, `DELETE FROM price_data WHERE price_date = $1`, date)
	if err != nil {
		return fmt.Errorf("delete prices: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range prices {
		if !model.Day(p.Date).Equal(date) {
			return fmt.Errorf("%w: %s dated %s in batch for %s", model.ErrInvalidObservation,
				p.CUSIP, p.Date.Format(time.DateOnly), date.Format(time.DateOnly))
		}
		batch.Queue(`
			INSERT INTO price_data (cusip, price_date, buy, sell, end_of_day)
			VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5::text::numeric)
		`, p.CUSIP, date, nullString(p.Buy), nullString(p.Sell), nullString(p.EndOfDay))
	}

	results := tx.SendBatch(ctx, batch)
	for range prices {
		if _, err = results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert price: %w", err)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("replaced prices",
		"date", date.Format(time.DateOnly),
		"deleted", deleted.RowsAffected(),
		"inserted", len(prices),
	)
	return nil
}

// priceRow is a price_data row with numerics read as text.
type priceRow struct {
	CUSIP    string
	Date     time.Time
	Buy      *string
	Sell     *string
	EndOfDay *string
}

func (r priceRow) toModel() (model.PriceObservation, error) {
	p := model.PriceObservation{CUSIP: r.CUSIP, Date: model.Day(r.Date)}
	var err error
	if p.Buy, err = parseNullDecimal(r.Buy); err != nil {
		return p, fmt.Errorf("buy: %w", err)
	}
	if p.Sell, err = parseNullDecimal(r.Sell); err != nil {
		return p, fmt.Errorf("sell: %w", err)
	}
	if p.EndOfDay, err = parseNullDecimal(r.EndOfDay); err != nil {
		return p, fmt.Errorf("end_of_day: %w", err)
	}
	return p, nil
}

func parseNullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func nullString(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
