package bond

import "time"

// Frequency is the number of coupon payments per year.
type Frequency int

const (
	Annual     Frequency = 1
	Semiannual Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
)

// months returns the length of one period in months.
func (f Frequency) months() int { return 12 / int(f) }

// DayCounter computes the year fraction between two dates. The reference
// period is the coupon period the dates belong to; conventions that do not
// need it ignore it.
type DayCounter interface {
	Name() string
	YearFraction(start, end, refStart, refEnd time.Time) float64
}

// ActualActualISMA is the bond basis used by Treasury notes and bonds:
// actual days over actual days in the reference period, times the period
// length in years.
type ActualActualISMA struct {
	Frequency Frequency
}

func (ActualActualISMA) Name() string { return "Actual/Actual (ISMA)" }

func (dc ActualActualISMA) YearFraction(d1, d2, refStart, refEnd time.Time) float64 {
	d1, d2 = day(d1), day(d2)
	if d1.Equal(d2) {
		return 0
	}
	if d2.Before(d1) {
		return -dc.YearFraction(d2, d1, refStart, refEnd)
	}
	freq := dc.Frequency
	if freq <= 0 {
		freq = Semiannual
	}
	if refStart.IsZero() || refEnd.IsZero() || !refStart.Before(refEnd) {
		refStart, refEnd = d1, addMonths(d1, freq.months(), false)
	}
	refStart, refEnd = day(refStart), day(refEnd)
	period := 1 / float64(freq)

	switch {
	case d1.Before(refStart):
		// long first period: the part before refStart uses the previous period
		prev := addMonths(refStart, -freq.months(), isEndOfMonth(refEnd))
		if !d2.After(refStart) {
			return dc.YearFraction(d1, d2, prev, refStart)
		}
		return dc.YearFraction(d1, refStart, prev, refStart) + dc.YearFraction(refStart, d2, refStart, refEnd)
	case d2.After(refEnd):
		next := addMonths(refEnd, freq.months(), isEndOfMonth(refEnd))
		if !d1.Before(refEnd) {
			return dc.YearFraction(d1, d2, refEnd, next)
		}
		return dc.YearFraction(d1, refEnd, refStart, refEnd) + dc.YearFraction(refEnd, d2, refEnd, next)
	}
	return period * float64(daysBetween(d1, d2)) / float64(daysBetween(refStart, refEnd))
}

// ActualActualISDA splits the interval by calendar year and divides each
// piece by that year's length.
type ActualActualISDA struct{}

func (ActualActualISDA) Name() string { return "Actual/Actual (ISDA)" }

func (ActualActualISDA) YearFraction(d1, d2, _, _ time.Time) float64 {
	d1, d2 = day(d1), day(d2)
	if d2.Before(d1) {
		return -ActualActualISDA{}.YearFraction(d2, d1, time.Time{}, time.Time{})
	}
	y1, y2 := d1.Year(), d2.Year()
	if y1 == y2 {
		return float64(daysBetween(d1, d2)) / float64(daysInYear(y1))
	}
	sum := float64(y2 - y1 - 1)
	sum += float64(daysBetween(d1, time.Date(y1+1, 1, 1, 0, 0, 0, 0, time.UTC))) / float64(daysInYear(y1))
	sum += float64(daysBetween(time.Date(y2, 1, 1, 0, 0, 0, 0, time.UTC), d2)) / float64(daysInYear(y2))
	return sum
}

// Actual365Fixed divides actual days by 365.
type Actual365Fixed struct{}

func (Actual365Fixed) Name() string { return "Actual/365 (Fixed)" }

func (Actual365Fixed) YearFraction(d1, d2, _, _ time.Time) float64 {
	return float64(daysBetween(d1, d2)) / 365
}

func daysInYear(y int) int {
	if time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}
