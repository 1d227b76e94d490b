package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/treasury-data/internal/model"
)

// MissingReferences returns the CUSIPs among cusips with no reference row.
func (s *Store) MissingReferences(ctx context.Context, cusips []string) ([]string, error) {
	if len(cusips) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT c FROM unnest($1::text[]) AS c
		WHERE NOT EXISTS (SELECT 1 FROM cusip_info WHERE cusip_info.cusip = c)
		ORDER BY c
	`, cusips)
	if err != nil {
		return nil, fmt.Errorf("query missing references: %w", err)
	}
	missing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan missing references: %w", err)
	}
	return missing, nil
}

// InsertReference stores ref unless the CUSIP already has one. It reports
// whether a row was written.
func (s *Store) InsertReference(ctx context.Context, ref model.SecurityReference) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO cusip_info (cusip, issue_date, maturity_date, security_type, security_term,
			interest_rate, payment_frequency, spread, type_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cusip) DO NOTHING
	`, ref.CUSIP, model.Day(ref.IssueDate), model.Day(ref.MaturityDate), string(ref.SecurityType), ref.Term,
		ref.CouponRate, ref.PaymentFrequency, ref.Spread, ref.TypeLabel)
	if err != nil {
		return false, fmt.Errorf("insert reference %s: %w", ref.CUSIP, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Reference returns the reference of cusip, or nil.
func (s *Store) Reference(ctx context.Context, cusip string) (*model.SecurityReference, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cusip, issue_date, maturity_date, security_type, security_term,
			interest_rate, payment_frequency, spread, type_label
		FROM cusip_info WHERE cusip = $1
	`, cusip)
	if err != nil {
		return nil, fmt.Errorf("query reference: %w", err)
	}
	refs, err := pgx.CollectRows(rows, scanReference)
	if err != nil {
		return nil, fmt.Errorf("scan reference: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return &refs[0], nil
}

func scanReference(row pgx.CollectableRow) (model.SecurityReference, error) {
	var ref model.SecurityReference
	var kind string
	err := row.Scan(&ref.CUSIP, &ref.IssueDate, &ref.MaturityDate, &kind, &ref.Term,
		&ref.CouponRate, &ref.PaymentFrequency, &ref.Spread, &ref.TypeLabel)
	ref.SecurityType = model.SecurityType(kind)
	ref.IssueDate, ref.MaturityDate = model.Day(ref.IssueDate), model.Day(ref.MaturityDate)
	return ref, err
}

// RetrieveAsOf returns the price rows of date left-joined with their references.
func (s *Store) RetrieveAsOf(ctx context.Context, date time.Time) ([]model.JoinedRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.cusip, p.price_date, p.buy::text, p.sell::text, p.end_of_day::text,
			r.cusip IS NOT NULL, r.issue_date, r.maturity_date, r.security_type, r.security_term,
			r.interest_rate, r.payment_frequency, r.spread, r.type_label
		FROM price_data p
		LEFT JOIN cusip_info r ON r.cusip = p.cusip
		WHERE p.price_date = $1
		ORDER BY p.cusip
	`, model.Day(date))
	if err != nil {
		return nil, fmt.Errorf("query as of: %w", err)
	}
	joined, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JoinedRow, error) {
		var p priceRow
		var found bool
		var issue, maturity *time.Time
		var kind, term, freq, label *string
		var coupon, spread *float64
		if err := row.Scan(&p.CUSIP, &p.Date, &p.Buy, &p.Sell, &p.EndOfDay,
			&found, &issue, &maturity, &kind, &term, &coupon, &freq, &spread, &label); err != nil {
			return model.JoinedRow{}, err
		}
		obs, err := p.toModel()
		if err != nil {
			return model.JoinedRow{}, err
		}
		out := model.JoinedRow{PriceObservation: obs}
		if found {
			out.Reference = &model.SecurityReference{
				CUSIP:            p.CUSIP,
				IssueDate:        model.Day(*issue),
				MaturityDate:     model.Day(*maturity),
				SecurityType:     model.SecurityType(*kind),
				Term:             *term,
				CouponRate:       *coupon,
				PaymentFrequency: *freq,
				Spread:           *spread,
				TypeLabel:        *label,
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan as of: %w", err)
	}
	return joined, nil
}
