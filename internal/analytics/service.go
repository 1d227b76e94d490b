package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/bond"
	"github.com/rickgao/treasury-data/internal/metrics"
	"github.com/rickgao/treasury-data/internal/model"
)

// Reader loads stored rows for a date.
type Reader interface {
	RetrieveAsOf(ctx context.Context, date time.Time) ([]model.JoinedRow, error)
}

// YieldRow is one conventional security of the yield table.
type YieldRow struct {
	CUSIP          string
	SecurityType   model.SecurityType
	IssueDate      time.Time
	MaturityDate   time.Time
	Coupon         float64             // Decimal fraction
	CouponLabel    string              // e.g. "1.5%"
	TimeToMaturity float64             // Years, days/365
	Term           float64             // Years from issue to maturity, days/365
	Price          decimal.NullDecimal // End-of-day clean price
	Yield          float64             // NaN when no yield could be computed
}

// Service answers read queries.
type Service struct {
	reader  Reader
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates a Service. m may be nil.
func NewService(reader Reader, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, metrics: m, logger: logger}
}

// RetrieveAsOf returns the rows stored for date with their references.
// Rows whose CUSIP has no reference yet carry a nil Reference.
func (s *Service) RetrieveAsOf(ctx context.Context, date time.Time) ([]model.JoinedRow, error) {
	rows, err := s.reader.RetrieveAsOf(ctx, model.Day(date))
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", date.Format(time.DateOnly), err)
	}
	return rows, nil
}

// YieldTable computes the yield of every Note and Bond priced on date, using
// date as the evaluation date. A row that cannot be solved keeps a NaN yield;
// it never fails the table.
func (s *Service) YieldTable(ctx context.Context, date time.Time) ([]YieldRow, error) {
	date = model.Day(date)
	rows, err := s.RetrieveAsOf(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]YieldRow, 0, len(rows))
	var failed int
	for _, r := range rows {
		ref := r.Reference
		if ref == nil || !bond.Supported(ref.SecurityType) {
			continue
		}

		yr := YieldRow{
			CUSIP:          r.CUSIP,
			SecurityType:   ref.SecurityType,
			IssueDate:      ref.IssueDate,
			MaturityDate:   ref.MaturityDate,
			Coupon:         ref.CouponRate,
			CouponLabel:    CouponLabel(ref.CouponRate),
			TimeToMaturity: float64(model.DaysBetween(date, ref.MaturityDate)) / 365.0,
			Term:           float64(model.DaysBetween(ref.IssueDate, ref.MaturityDate)) / 365.0,
			Price:          r.EndOfDay,
			Yield:          math.NaN(),
		}

		if reason := s.solve(&yr, date); reason != "" {
			failed++
			s.metrics.ObserveYieldFailure(reason)
		}
		out = append(out, yr)
	}

	s.logger.Debug("yield table computed",
		"date", date.Format(time.DateOnly),
		"rows", len(out),
		"without_yield", failed,
	)
	return out, nil
}

// solve fills yr.Yield and returns a failure reason, or "" on success.
func (s *Service) solve(yr *YieldRow, date time.Time) string {
	if !yr.Price.Valid {
		return "unpriced"
	}
	price := yr.Price.Decimal.InexactFloat64()
	if price <= bond.PriceFloor {
		return "unpriced"
	}

	y, err := bond.ComputeYield(yr.SecurityType, yr.IssueDate, yr.MaturityDate, yr.Coupon, date, price)
	switch {
	case errors.Is(err, bond.ErrUnsupportedSecurityType):
		return "unsupported"
	case err != nil:
		s.logger.Warn("yield computation failed", "cusip", yr.CUSIP, "error", err)
		return "invalid_terms"
	case math.IsNaN(y):
		return "no_solution"
	}
	yr.Yield = y
	return ""
}

// CouponLabel formats a decimal coupon rate as a percentage.
func CouponLabel(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).String() + "%"
}
