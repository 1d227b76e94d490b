package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/model"
)

// Equal reports whether two snapshots of the same date carry the same data:
// the same set of CUSIPs, and every buy, sell and end-of-day price within
// eps of its counterpart. A missing price only equals a missing price, so
// unlike a NaN-propagating max, missing prices on both sides do not force a
// replace.
func Equal(a, b []model.PriceObservation, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[string]model.PriceObservation, len(b))
	for _, p := range b {
		index[p.CUSIP] = p
	}
	if len(index) != len(b) {
		return false
	}

	seen := make(map[string]struct{}, len(a))
	tol := decimal.NewFromFloat(eps)
	for _, p := range a {
		if _, dup := seen[p.CUSIP]; dup {
			return false
		}
		seen[p.CUSIP] = struct{}{}

		q, ok := index[p.CUSIP]
		if !ok {
			return false
		}
		if !within(p.Buy, q.Buy, tol) || !within(p.Sell, q.Sell, tol) || !within(p.EndOfDay, q.EndOfDay, tol) {
			return false
		}
	}
	return true
}

func within(a, b decimal.NullDecimal, tol decimal.Decimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Sub(b.Decimal).Abs().LessThan(tol)
}

// Confirmable reports whether rows for date can be marked final as of today:
// either the date is at least lagDays old, or every row has an end-of-day
// price above floor.
func Confirmable(date time.Time, rows []model.PriceObservation, today time.Time, lagDays int, floor float64) bool {
	if model.DaysBetween(date, today) >= lagDays {
		return true
	}
	if len(rows) == 0 {
		return false
	}
	threshold := decimal.NewFromFloat(floor)
	for _, p := range rows {
		if !p.EndOfDay.Valid || !p.EndOfDay.Decimal.GreaterThan(threshold) {
			return false
		}
	}
	return true
}
