package bond

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUSGovernmentBondHolidays(t *testing.T) {
	cal := USGovernmentBond{}

	holidays := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 15),  // MLK
		date(2024, time.February, 19), // Washington
		date(2024, time.March, 29),    // Good Friday
		date(2024, time.May, 27),      // Memorial
		date(2024, time.June, 19),     // Juneteenth
		date(2024, time.July, 4),
		date(2024, time.September, 2),
		date(2024, time.October, 14),
		date(2024, time.November, 11),
		date(2024, time.November, 28),
		date(2024, time.December, 25),
		date(2026, time.July, 3),      // July 4th on a Saturday
		date(2022, time.December, 26), // Christmas on a Sunday
		date(2023, time.January, 2),   // New Year on a Sunday
		date(2023, time.June, 19),
	}
	for _, d := range holidays {
		assert.False(t, cal.IsBusinessDay(d), "%s should be a holiday", d.Format(time.DateOnly))
	}

	business := []time.Time{
		date(2024, time.March, 28),
		date(2024, time.July, 5),
		date(2021, time.December, 31), // New Year on Saturday is not moved
		date(2021, time.June, 18),     // before Juneteenth was observed
		date(2024, time.November, 29),
	}
	for _, d := range business {
		assert.True(t, cal.IsBusinessDay(d), "%s should be a business day", d.Format(time.DateOnly))
	}

	assert.False(t, cal.IsBusinessDay(date(2024, time.March, 30)), "saturday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.March, 31)), "sunday")
}

func TestEaster(t *testing.T) {
	assert.Equal(t, date(2024, time.March, 31), easter(2024))
	assert.Equal(t, date(2025, time.April, 20), easter(2025))
	assert.Equal(t, date(2019, time.April, 21), easter(2019))
}

func TestAdvance(t *testing.T) {
	cal := USGovernmentBond{}
	assert.Equal(t, date(2024, time.July, 8), Advance(cal, date(2024, time.July, 3), 2))
	assert.Equal(t, date(2025, time.August, 15), Advance(cal, date(2025, time.August, 13), 2))
	assert.Equal(t, date(2024, time.March, 28), Advance(cal, date(2024, time.March, 28), 0))
}

func TestAdjust(t *testing.T) {
	cal := USGovernmentBond{}
	sat := date(2024, time.March, 30)

	assert.Equal(t, sat, Adjust(cal, sat, Unadjusted))
	assert.Equal(t, date(2024, time.April, 1), Adjust(cal, sat, Following))
	// rolling forward leaves March, and Good Friday is a holiday
	assert.Equal(t, date(2024, time.March, 28), Adjust(cal, sat, ModifiedFollowing))
}
