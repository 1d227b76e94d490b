package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickgao/treasury-data/internal/model"
)

func TestEqual(t *testing.T) {
	d := day(2025, 8, 13)
	base := []model.PriceObservation{
		row("912828YY0", d, "99.5", "99.5", "99.5"),
		row("912810RZ3", d, "88.25", "", "88.25"),
	}

	tests := []struct {
		name  string
		other []model.PriceObservation
		want  bool
	}{
		{"identical", base, true},
		{"reordered", []model.PriceObservation{base[1], base[0]}, true},
		{"below epsilon", []model.PriceObservation{
			row("912828YY0", d, "99.5000005", "99.5", "99.5"),
			base[1],
		}, true},
		{"at epsilon", []model.PriceObservation{
			row("912828YY0", d, "99.500001", "99.5", "99.5"),
			base[1],
		}, false},
		{"one field differs", []model.PriceObservation{
			base[0],
			row("912810RZ3", d, "88.25", "", "88.26"),
		}, false},
		{"null versus value", []model.PriceObservation{
			base[0],
			row("912810RZ3", d, "88.25", "88.25", "88.25"),
		}, false},
		{"fewer rows", base[:1], false},
		{"different cusip", []model.PriceObservation{
			base[0],
			row("912796XX1", d, "88.25", "", "88.25"),
		}, false},
		{"duplicate cusip", []model.PriceObservation{base[0], base[0]}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(base, tt.other, 1e-6))
			assert.Equal(t, tt.want, Equal(tt.other, base, 1e-6), "not symmetric")
		})
	}
}

func TestEqual_BothEmpty(t *testing.T) {
	assert.True(t, Equal(nil, nil, 1e-6))
}

func TestConfirmable(t *testing.T) {
	today := day(2025, 8, 20)
	priced := []model.PriceObservation{
		row("912828YY0", today, "", "", "99.5"),
		row("912810RZ3", today, "", "", "0.02"),
	}
	unpriced := []model.PriceObservation{
		row("912828YY0", today, "", "", "99.5"),
		row("912810RZ3", today, "", "", "0.0"),
	}
	missing := []model.PriceObservation{
		row("912828YY0", today, "99", "99", ""),
	}
	atFloor := []model.PriceObservation{
		row("912828YY0", today, "", "", "0.01"),
	}

	tests := []struct {
		name string
		date string
		rows []model.PriceObservation
		want bool
	}{
		{"at lag, priced", "2025-08-13", priced, true},
		{"at lag, unpriced", "2025-08-13", unpriced, true},
		{"inside lag, priced", "2025-08-14", priced, true},
		{"inside lag, unpriced", "2025-08-14", unpriced, false},
		{"inside lag, missing end of day", "2025-08-19", missing, false},
		{"inside lag, price at floor", "2025-08-19", atFloor, false},
		{"inside lag, no rows", "2025-08-19", nil, false},
		{"past lag, no rows", "2025-01-02", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := model.Day(mustDate(t, tt.date))
			assert.Equal(t, tt.want, Confirmable(date, tt.rows, today, 7, 0.01))
		})
	}
}
