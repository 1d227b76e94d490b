package bond

import (
	"errors"
	"fmt"

	"github.com/rickgao/treasury-data/internal/model"
)

// ErrUnsupportedSecurityType is returned for security types without a
// fixed-rate convention (bills, TIPS, FRNs).
var ErrUnsupportedSecurityType = errors.New("unsupported security type")

// Compounding is how the yield compounds.
type Compounding int

const (
	Simple Compounding = iota
	Compounded
)

// Convention is everything needed to build and price a fixed-rate bond.
type Convention struct {
	Frequency      Frequency // coupon frequency
	DayCount       DayCounter
	Compounding    Compounding
	YieldFrequency Frequency // compounding frequency of the yield
	SettlementDays int
	FaceAmount     float64
	BusinessDay    BusinessDayConvention
	EndOfMonth     bool
	Calendar       Calendar
}

// USTreasury is the street convention for Treasury notes and bonds. Accrual
// uses Actual/Actual ISMA (bond basis), not the ISDA variant QuantLib picks
// for a bare ActualActual().
var USTreasury = Convention{
	Frequency:      Semiannual,
	DayCount:       ActualActualISMA{Frequency: Semiannual},
	Compounding:    Compounded,
	YieldFrequency: Semiannual,
	SettlementDays: 2,
	FaceAmount:     100,
	BusinessDay:    Unadjusted,
	EndOfMonth:     true,
	Calendar:       USGovernmentBond{},
}

var conventions = map[model.SecurityType]Convention{
	model.Note: USTreasury,
	model.Bond: USTreasury,
}

// ConventionFor returns the pricing convention of a security type.
func ConventionFor(t model.SecurityType) (Convention, error) {
	c, ok := conventions[t]
	if !ok {
		return Convention{}, fmt.Errorf("%w: %q", ErrUnsupportedSecurityType, t)
	}
	return c, nil
}

// Supported reports whether yields can be computed for t.
func Supported(t model.SecurityType) bool {
	_, ok := conventions[t]
	return ok
}
