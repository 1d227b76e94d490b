package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullStringRoundTrip(t *testing.T) {
	assert.Nil(t, nullString(decimal.NullDecimal{}))

	s := nullString(decimal.NewNullDecimal(decimal.RequireFromString("99.453125")))
	require.NotNil(t, s)
	assert.Equal(t, "99.453125", *s)

	back, err := parseNullDecimal(s)
	require.NoError(t, err)
	assert.True(t, back.Valid)
	assert.True(t, back.Decimal.Equal(decimal.RequireFromString("99.453125")))
}

func TestParseNullDecimal(t *testing.T) {
	d, err := parseNullDecimal(nil)
	require.NoError(t, err)
	assert.False(t, d.Valid)

	bad := "abc"
	_, err = parseNullDecimal(&bad)
	assert.Error(t, err)
}

func TestPriceRowToModel(t *testing.T) {
	buy, eod := "100.000000", "100.015625"
	row := priceRow{CUSIP: "912828YY0", Buy: &buy, EndOfDay: &eod}

	obs, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, "912828YY0", obs.CUSIP)
	assert.True(t, obs.Buy.Valid)
	assert.False(t, obs.Sell.Valid)
	assert.Equal(t, "100.015625", obs.EndOfDay.Decimal.StringFixed(6))

	bad := "x"
	row.Sell = &bad
	_, err = row.toModel()
	assert.ErrorContains(t, err, "sell")
}
