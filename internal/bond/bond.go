package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/rickgao/treasury-data/internal/model"
)

// PriceFloor is the clean price at or below which a quote is a placeholder.
const PriceFloor = 0.01

// Cashflow is one payment of the bond.
type Cashflow struct {
	Date         time.Time
	Amount       float64
	Redemption   bool
	AccrualStart time.Time // zero for the redemption
	AccrualEnd   time.Time
	RefStart     time.Time // reference period for the day counter
	RefEnd       time.Time
}

// Bond is a fixed-rate coupon bond.
type Bond struct {
	conv      Convention
	issue     time.Time
	maturity  time.Time
	coupon    float64
	schedule  []time.Time
	cashflows []Cashflow
}

// New builds a bond and its cash flows.
func New(conv Convention, issue, maturity time.Time, coupon float64) (*Bond, error) {
	if coupon < 0 || math.IsNaN(coupon) {
		return nil, fmt.Errorf("invalid coupon %v", coupon)
	}
	sched, err := Schedule(issue, maturity, conv.Frequency, conv.EndOfMonth, conv.Calendar, conv.BusinessDay)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	b := &Bond{
		conv:     conv,
		issue:    day(issue),
		maturity: day(maturity),
		coupon:   coupon,
		schedule: sched,
	}

	eom := conv.EndOfMonth && isEndOfMonth(b.maturity)
	for i := 1; i < len(sched); i++ {
		start, end := sched[i-1], sched[i]
		refStart, refEnd := start, end
		if i == 1 {
			// the first period may be a stub; measure it against a full period
			refStart = addMonths(end, -conv.Frequency.months(), eom)
		}
		amount := conv.FaceAmount * coupon * conv.DayCount.YearFraction(start, end, refStart, refEnd)
		b.cashflows = append(b.cashflows, Cashflow{
			Date:         end,
			Amount:       amount,
			AccrualStart: start,
			AccrualEnd:   end,
			RefStart:     refStart,
			RefEnd:       refEnd,
		})
	}
	b.cashflows = append(b.cashflows, Cashflow{
		Date:       b.maturity,
		Amount:     conv.FaceAmount,
		Redemption: true,
	})
	return b, nil
}

// ForSecurity builds a bond from a security type's convention.
func ForSecurity(t model.SecurityType, issue, maturity time.Time, coupon float64) (*Bond, error) {
	conv, err := ConventionFor(t)
	if err != nil {
		return nil, err
	}
	return New(conv, issue, maturity, coupon)
}

// Schedule returns the coupon dates, issue first.
func (b *Bond) Schedule() []time.Time {
	return append([]time.Time(nil), b.schedule...)
}

// Cashflows returns all payments in date order.
func (b *Bond) Cashflows() []Cashflow {
	return append([]Cashflow(nil), b.cashflows...)
}

// SettlementDate is the evaluation date advanced by the settlement lag.
func (b *Bond) SettlementDate(evalDate time.Time) time.Time {
	return Advance(b.conv.Calendar, evalDate, b.conv.SettlementDays)
}

// AccruedInterest is the coupon accrued on the settlement date. It is zero
// on a coupon date.
func (b *Bond) AccruedInterest(settlement time.Time) float64 {
	settlement = day(settlement)
	for _, cf := range b.cashflows {
		if cf.Redemption {
			continue
		}
		if !settlement.Before(cf.AccrualStart) && settlement.Before(cf.AccrualEnd) {
			return b.conv.FaceAmount * b.coupon * b.conv.DayCount.YearFraction(cf.AccrualStart, settlement, cf.RefStart, cf.RefEnd)
		}
	}
	return 0
}

// discountTimes returns the payments after settlement and their discount
// times in years, measured period by period on the day counter.
func (b *Bond) discountTimes(settlement time.Time) ([]Cashflow, []float64) {
	var flows []Cashflow
	var times []float64
	t := 0.0
	last := settlement
	for _, cf := range b.cashflows {
		if !cf.Date.After(settlement) {
			continue
		}
		if !cf.Redemption {
			t += b.conv.DayCount.YearFraction(last, cf.Date, cf.RefStart, cf.RefEnd)
		} else if cf.Date.After(last) {
			t += b.conv.DayCount.YearFraction(last, cf.Date, time.Time{}, time.Time{})
		}
		last = cf.Date
		flows = append(flows, cf)
		times = append(times, t)
	}
	return flows, times
}

// discount is the discount factor for time t at yield y.
func (b *Bond) discount(y, t float64) float64 {
	if b.conv.Compounding == Simple {
		return 1 / (1 + y*t)
	}
	f := float64(b.conv.YieldFrequency)
	return math.Pow(1+y/f, -f*t)
}

// dDiscount is the derivative of discount with respect to y.
func (b *Bond) dDiscount(y, t float64) float64 {
	if b.conv.Compounding == Simple {
		return -t / ((1 + y*t) * (1 + y*t))
	}
	f := float64(b.conv.YieldFrequency)
	return -t * math.Pow(1+y/f, -f*t-1)
}

// DirtyPrice is the present value on the settlement date at yield y.
func (b *Bond) DirtyPrice(evalDate time.Time, y float64) float64 {
	flows, times := b.discountTimes(b.SettlementDate(evalDate))
	pv := 0.0
	for i, cf := range flows {
		pv += cf.Amount * b.discount(y, times[i])
	}
	return pv
}

// CleanPrice is the dirty price less accrued interest.
func (b *Bond) CleanPrice(evalDate time.Time, y float64) float64 {
	return b.DirtyPrice(evalDate, y) - b.AccruedInterest(b.SettlementDate(evalDate))
}

// Yield solves for the yield that reprices the bond to cleanPrice as of
// evalDate. It returns NaN for placeholder prices (at or below PriceFloor),
// for bonds with nothing left to pay and when the solve does not converge.
func (b *Bond) Yield(evalDate time.Time, cleanPrice float64) float64 {
	if math.IsNaN(cleanPrice) || cleanPrice <= PriceFloor {
		return math.NaN()
	}
	settlement := b.SettlementDate(evalDate)
	flows, times := b.discountTimes(settlement)
	if len(flows) == 0 {
		return math.NaN()
	}
	target := cleanPrice + b.AccruedInterest(settlement)

	price := func(y float64) (float64, float64) {
		var pv, dpv float64
		for i, cf := range flows {
			pv += cf.Amount * b.discount(y, times[i])
			dpv += cf.Amount * b.dDiscount(y, times[i])
		}
		return pv - target, dpv
	}

	lower := -0.5
	if b.conv.Compounding == Compounded {
		lower = -float64(b.conv.YieldFrequency) * 0.99
	}
	y, err := solve(price, b.coupon, lower, 10)
	if err != nil {
		return math.NaN()
	}
	return y
}

// ComputeYield is the one-shot entry point: build the bond for the security
// type and solve its yield. Unsupported types and malformed terms are errors;
// unpriceable quotes return NaN with a nil error.
func ComputeYield(t model.SecurityType, issue, maturity time.Time, coupon float64, evalDate time.Time, cleanPrice float64) (float64, error) {
	b, err := ForSecurity(t, issue, maturity, coupon)
	if err != nil {
		return math.NaN(), err
	}
	return b.Yield(evalDate, cleanPrice), nil
}
