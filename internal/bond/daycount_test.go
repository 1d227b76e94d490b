package bond

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActualActualISMA(t *testing.T) {
	dc := ActualActualISMA{Frequency: Semiannual}
	start, end := date(2025, time.February, 15), date(2025, time.August, 15)

	assert.InDelta(t, 0.5, dc.YearFraction(start, end, start, end), 1e-15)
	assert.InDelta(t, 0.5*89.0/181.0, dc.YearFraction(start, date(2025, time.May, 15), start, end), 1e-15)
	assert.Equal(t, 0.0, dc.YearFraction(start, start, start, end))
	assert.InDelta(t, -0.5, dc.YearFraction(end, start, start, end), 1e-15)

	// spans two reference periods
	next := date(2026, time.February, 15)
	assert.InDelta(t, 1.0, dc.YearFraction(start, next, start, end), 1e-15)

	// short stub measured against the full notional period
	notional := date(2020, time.February, 15)
	stubEnd := date(2020, time.August, 15)
	issue := date(2020, time.February, 18)
	want := 0.5 * float64(daysBetween(issue, stubEnd)) / float64(daysBetween(notional, stubEnd))
	assert.InDelta(t, want, dc.YearFraction(issue, stubEnd, notional, stubEnd), 1e-15)

	assert.Equal(t, "Actual/Actual (ISMA)", dc.Name())
}

func TestActualActualISDA(t *testing.T) {
	dc := ActualActualISDA{}
	got := dc.YearFraction(date(2023, time.July, 1), date(2024, time.July, 1), time.Time{}, time.Time{})
	assert.InDelta(t, 184.0/365.0+182.0/366.0, got, 1e-15)

	got = dc.YearFraction(date(2022, time.January, 1), date(2025, time.January, 1), time.Time{}, time.Time{})
	assert.InDelta(t, 3.0, got, 1e-15)

	got = dc.YearFraction(date(2024, time.March, 1), date(2024, time.March, 31), time.Time{}, time.Time{})
	assert.InDelta(t, 30.0/366.0, got, 1e-15)
}

func TestActual365Fixed(t *testing.T) {
	got := Actual365Fixed{}.YearFraction(date(2024, time.January, 1), date(2025, time.January, 1), time.Time{}, time.Time{})
	assert.InDelta(t, 366.0/365.0, got, 1e-15)
}
