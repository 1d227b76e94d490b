package bond

import (
	"fmt"
	"time"
)

// Schedule generates coupon dates backward from maturity to the issue date.
// The first period is a short stub when the term is not a whole number of
// periods. Dates other than issue and maturity are rolled by conv.
func Schedule(issue, maturity time.Time, freq Frequency, eom bool, cal Calendar, conv BusinessDayConvention) ([]time.Time, error) {
	issue, maturity = day(issue), day(maturity)
	if !maturity.After(issue) {
		return nil, fmt.Errorf("maturity %s is not after issue %s", maturity.Format(time.DateOnly), issue.Format(time.DateOnly))
	}
	if freq <= 0 || 12%int(freq) != 0 {
		return nil, fmt.Errorf("unsupported frequency %d", freq)
	}

	eom = eom && isEndOfMonth(maturity)
	backward := []time.Time{maturity}
	for i := 1; ; i++ {
		d := addMonths(maturity, -i*freq.months(), eom)
		if !d.After(issue) {
			break
		}
		backward = append(backward, d)
	}
	backward = append(backward, issue)

	dates := make([]time.Time, len(backward))
	for i, d := range backward {
		dates[len(backward)-1-i] = d
	}
	for i := 1; i < len(dates)-1; i++ {
		dates[i] = Adjust(cal, dates[i], conv)
	}
	return dates, nil
}
