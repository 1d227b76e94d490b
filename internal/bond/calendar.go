package bond

import "time"

// Calendar decides which dates are business days.
type Calendar interface {
	Name() string
	IsBusinessDay(t time.Time) bool
}

// BusinessDayConvention rolls a non-business date.
type BusinessDayConvention int

const (
	Unadjusted BusinessDayConvention = iota
	Following
	ModifiedFollowing
)

// Adjust rolls t according to the convention.
func Adjust(cal Calendar, t time.Time, conv BusinessDayConvention) time.Time {
	t = day(t)
	switch conv {
	case Following:
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, 1)
		}
	case ModifiedFollowing:
		d := t
		for !cal.IsBusinessDay(d) {
			d = d.AddDate(0, 0, 1)
		}
		if d.Month() != t.Month() {
			d = t
			for !cal.IsBusinessDay(d) {
				d = d.AddDate(0, 0, -1)
			}
		}
		t = d
	}
	return t
}

// Advance moves t forward by n business days.
func Advance(cal Calendar, t time.Time, n int) time.Time {
	t = day(t)
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if cal.IsBusinessDay(t) {
			n--
		}
	}
	return t
}

// USGovernmentBond is the U.S. government bond market calendar
// (SIFMA recommended full closes).
type USGovernmentBond struct{}

func (USGovernmentBond) Name() string { return "US government bond market" }

func (USGovernmentBond) IsBusinessDay(t time.Time) bool {
	t = day(t)
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !isGovernmentBondHoliday(t)
}

func isGovernmentBondHoliday(t time.Time) bool {
	y, m, d := t.Date()
	wd := t.Weekday()

	switch {
	// New Year's Day, Monday if Sunday
	case m == time.January && (d == 1 || (d == 2 && wd == time.Monday)):
		return true
	// Martin Luther King's birthday, third Monday in January
	case y >= 1983 && m == time.January && wd == time.Monday && d >= 15 && d <= 21:
		return true
	// Washington's birthday, third Monday in February
	case m == time.February && wd == time.Monday && d >= 15 && d <= 21:
		return true
	// Memorial Day, last Monday in May
	case m == time.May && wd == time.Monday && d >= 25:
		return true
	// Juneteenth, moved to the nearest weekday
	case y >= 2022 && m == time.June && observed(d, wd, 19):
		return true
	// Independence Day, moved to the nearest weekday
	case m == time.July && observed(d, wd, 4):
		return true
	// Labor Day, first Monday in September
	case m == time.September && wd == time.Monday && d <= 7:
		return true
	// Columbus Day, second Monday in October
	case m == time.October && wd == time.Monday && d >= 8 && d <= 14:
		return true
	// Veterans' Day, Monday if Sunday
	case m == time.November && (d == 11 || (d == 12 && wd == time.Monday)):
		return true
	// Thanksgiving, fourth Thursday in November
	case m == time.November && wd == time.Thursday && d >= 22 && d <= 28:
		return true
	// Christmas, moved to the nearest weekday
	case m == time.December && observed(d, wd, 25):
		return true
	}

	return t.Equal(easter(y).AddDate(0, 0, -2))
}

// observed reports whether (d, wd) is the observance of a fixed holiday on
// day h: Friday before when it falls on Saturday, Monday after on Sunday.
func observed(d int, wd time.Weekday, h int) bool {
	return d == h || (d == h-1 && wd == time.Friday) || (d == h+1 && wd == time.Monday)
}

// easter returns Easter Sunday (anonymous Gregorian algorithm).
func easter(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dd := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), dd, 0, 0, 0, 0, time.UTC)
}
