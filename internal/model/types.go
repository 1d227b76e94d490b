package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidObservation is returned when a fetched row fails validation.
var ErrInvalidObservation = errors.New("invalid price observation")

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// -----------------------------------------------------------------------------
// Price Types
// -----------------------------------------------------------------------------

// PriceObservation is one security's published prices for one date.
// Keyed by (CUSIP, Date).
type PriceObservation struct {
	CUSIP    string              // Security identifier
	Date     time.Time           // Price date (midnight UTC)
	Buy      decimal.NullDecimal // Treasury buy price
	Sell     decimal.NullDecimal // Treasury sell price
	EndOfDay decimal.NullDecimal // End of day price
}

// Validate checks the row at the ingestion boundary.
func (p PriceObservation) Validate() error {
	if !ValidCUSIP(p.CUSIP) {
		return fmt.Errorf("%w: cusip %q", ErrInvalidObservation, p.CUSIP)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: %s has no date", ErrInvalidObservation, p.CUSIP)
	}
	for name, v := range map[string]decimal.NullDecimal{"buy": p.Buy, "sell": p.Sell, "end_of_day": p.EndOfDay} {
		if v.Valid && v.Decimal.IsNegative() {
			return fmt.Errorf("%w: %s %s is negative (%s)", ErrInvalidObservation, p.CUSIP, name, v.Decimal)
		}
	}
	return nil
}

// ValidCUSIP reports whether s looks like a CUSIP: 9 upper-case alphanumerics.
func ValidCUSIP(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Confirmation Types
// -----------------------------------------------------------------------------

// DateRecord marks a date for which a fetch produced data.
type DateRecord struct {
	Date      time.Time // Primary key
	Confirmed bool      // Data for the date is final
}

// DateState is the confirmation state of a date.
type DateState int

const (
	// Unseen: no DateRecord exists yet.
	Unseen DateState = iota
	// Provisional: data stored but may still be replaced.
	Provisional
	// Confirmed: data is final. Terminal.
	Confirmed
)

// StateOf derives the state from an optional record.
func StateOf(rec *DateRecord) DateState {
	switch {
	case rec == nil:
		return Unseen
	case rec.Confirmed:
		return Confirmed
	default:
		return Provisional
	}
}

func (s DateState) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Provisional:
		return "provisional"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("DateState(%d)", int(s))
	}
}

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// SecurityType is the Treasury security family.
type SecurityType string

const (
	Note SecurityType = "Note"
	Bond SecurityType = "Bond"
	Bill SecurityType = "Bill"
	TIPS SecurityType = "TIPS"
	FRN  SecurityType = "FRN"
)

// ParseSecurityType accepts both short names and the TreasuryDirect labels
// ("MARKET BASED NOTE", ...).
func ParseSecurityType(s string) (SecurityType, error) {
	switch s {
	case "Note", "MARKET BASED NOTE":
		return Note, nil
	case "Bond", "MARKET BASED BOND":
		return Bond, nil
	case "Bill", "MARKET BASED BILL":
		return Bill, nil
	case "TIPS":
		return TIPS, nil
	case "FRN", "MARKET BASED FRN":
		return FRN, nil
	}
	return "", fmt.Errorf("unknown security type %q", s)
}

// SecurityReference holds the immutable descriptive attributes of a CUSIP.
type SecurityReference struct {
	CUSIP            string       // Primary key
	IssueDate        time.Time    // Original issue date
	MaturityDate     time.Time    // Maturity date
	SecurityType     SecurityType // Note, Bond, Bill, TIPS, FRN
	Term             string       // e.g. "10-Year"
	CouponRate       float64      // Decimal fraction
	PaymentFrequency string       // e.g. "Semi-Annual"
	Spread           float64      // FRN spread, decimal fraction
	TypeLabel        string       // Upstream security type label
}

// JoinedRow is a price row left-joined with its reference, if any.
type JoinedRow struct {
	PriceObservation
	Reference *SecurityReference
}
