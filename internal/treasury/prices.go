package treasury

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/model"
)

// ErrNoData means nothing was published for the requested date.
var ErrNoData = errors.New("no price data published")

// FedInvest CSV columns (the file has no header row).
const (
	colCUSIP = iota
	colSecurityType
	colRate
	colMaturityDate
	colCallDate
	colBuy
	colSell
	colEndOfDay
	numPriceColumns
)

// FetchDailyPrices downloads the FedInvest price file for date.
// It returns ErrNoData when the file is empty.
func (c *Client) FetchDailyPrices(ctx context.Context, date time.Time) ([]model.PriceObservation, error) {
	date = model.Day(date)

	form := url.Values{}
	form.Set("priceDateDay", strconv.Itoa(date.Day()))
	form.Set("priceDateMonth", strconv.Itoa(int(date.Month())))
	form.Set("priceDateYear", strconv.Itoa(date.Year()))
	form.Set("fileType", "csv")
	form.Set("csv", "CSV FORMAT")

	body, err := c.doWithRetry(ctx, request{
		method: http.MethodPost,
		url:    c.pricesURL,
		form:   form,
		accept: "text/csv",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch prices %s: %w", date.Format(time.DateOnly), err)
	}

	rows, err := ParsePriceCSV(bytes.NewReader(body), date)
	if err != nil {
		return nil, fmt.Errorf("parse prices %s: %w", date.Format(time.DateOnly), err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	c.logger.Debug("fetched daily prices", "date", date.Format(time.DateOnly), "rows", len(rows))
	return rows, nil
}

// ParsePriceCSV reads a FedInvest price file. Rows are validated; a header row,
// if present, is skipped.
func ParsePriceCSV(r io.Reader, date time.Time) ([]model.PriceObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []model.PriceObservation
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < numPriceColumns {
			return nil, fmt.Errorf("line %d: got %d columns, want %d", line, len(rec), numPriceColumns)
		}
		cusip := strings.ToUpper(strings.TrimSpace(rec[colCUSIP]))
		if line == 1 && cusip == "CUSIP" {
			continue
		}

		obs := model.PriceObservation{CUSIP: cusip, Date: model.Day(date)}
		if obs.Buy, err = parsePrice(rec[colBuy]); err != nil {
			return nil, fmt.Errorf("line %d buy: %w", line, err)
		}
		if obs.Sell, err = parsePrice(rec[colSell]); err != nil {
			return nil, fmt.Errorf("line %d sell: %w", line, err)
		}
		if obs.EndOfDay, err = parsePrice(rec[colEndOfDay]); err != nil {
			return nil, fmt.Errorf("line %d end of day: %w", line, err)
		}
		if err := obs.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[cusip] {
			return nil, fmt.Errorf("line %d: %w: duplicate cusip %s", line, model.ErrInvalidObservation, cusip)
		}
		seen[cusip] = true
		rows = append(rows, obs)
	}
	return rows, nil
}

// parsePrice returns a null decimal for blank cells.
func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
