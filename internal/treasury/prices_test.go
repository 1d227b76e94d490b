package treasury

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/model"
)

const sampleCSV = `912796ZV4,MARKET BASED BILL,0.000%,06/20/2024,,99.123456,99.101234,0
912828YK0,MARKET BASED NOTE,1.375%,10/15/2022,,100.015625,99.984375,100.000000
912810SN9,MARKET BASED BOND,1.250%,05/15/2050,,,,
`

func TestParsePriceCSV(t *testing.T) {
	day := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)

	rows, err := ParsePriceCSV(strings.NewReader(sampleCSV), day)
	if err != nil {
		t.Fatalf("ParsePriceCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	note := rows[1]
	if note.CUSIP != "912828YK0" {
		t.Errorf("CUSIP = %q, want 912828YK0", note.CUSIP)
	}
	if !note.Date.Equal(day) {
		t.Errorf("Date = %v, want %v", note.Date, day)
	}
	if !note.Buy.Valid || !note.Buy.Decimal.Equal(decimal.RequireFromString("100.015625")) {
		t.Errorf("Buy = %v, want 100.015625", note.Buy)
	}
	if !note.EndOfDay.Valid || !note.EndOfDay.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("EndOfDay = %v, want 100", note.EndOfDay)
	}

	bill := rows[0]
	if !bill.EndOfDay.Valid || !bill.EndOfDay.Decimal.IsZero() {
		t.Errorf("bill EndOfDay = %v, want 0", bill.EndOfDay)
	}

	bond := rows[2]
	if bond.Buy.Valid || bond.Sell.Valid || bond.EndOfDay.Valid {
		t.Errorf("bond prices should be null, got %v %v %v", bond.Buy, bond.Sell, bond.EndOfDay)
	}
}

func TestParsePriceCSVHeaderAndBlankLines(t *testing.T) {
	in := "CUSIP,SECURITY TYPE,RATE,MATURITY DATE,CALL DATE,BUY,SELL,END OF DAY\n\n" +
		"912828YK0,MARKET BASED NOTE,1.375%,10/15/2022,,100,99.9,99.95\n"
	rows, err := ParsePriceCSV(strings.NewReader(in), time.Now())
	if err != nil {
		t.Fatalf("ParsePriceCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
}

func TestParsePriceCSVErrors(t *testing.T) {
	day := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
	}{
		{"short row", "912828YK0,MARKET BASED NOTE,1.375%\n"},
		{"bad price", "912828YK0,MARKET BASED NOTE,1.375%,10/15/2022,,abc,99.9,99.95\n"},
		{"negative price", "912828YK0,MARKET BASED NOTE,1.375%,10/15/2022,,-1,99.9,99.95\n"},
		{"bad cusip", "XYZ,MARKET BASED NOTE,1.375%,10/15/2022,,100,99.9,99.95\n"},
		{"duplicate cusip", "912828YK0,N,1%,10/15/2022,,100,99.9,99.95\n912828YK0,N,1%,10/15/2022,,100,99.9,99.95\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePriceCSV(strings.NewReader(tt.in), day); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFetchDailyPrices(t *testing.T) {
	day := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)

	t.Run("rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			if r.PostForm.Get("priceDateDay") != "6" || r.PostForm.Get("priceDateMonth") != "8" || r.PostForm.Get("priceDateYear") != "2020" {
				t.Errorf("unexpected form %v", r.PostForm)
			}
			if r.PostForm.Get("fileType") != "csv" {
				t.Errorf("fileType = %q, want csv", r.PostForm.Get("fileType"))
			}
			w.Write([]byte(sampleCSV))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.URL)
		rows, err := c.FetchDailyPrices(context.Background(), day.Add(15*time.Hour))
		if err != nil {
			t.Fatalf("FetchDailyPrices failed: %v", err)
		}
		if len(rows) != 3 {
			t.Errorf("len(rows) = %d, want 3", len(rows))
		}
		for _, r := range rows {
			if !r.Date.Equal(day) {
				t.Errorf("row date = %v, want %v", r.Date, day)
			}
		}
	})

	t.Run("empty file is no data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("\n"))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.URL)
		_, err := c.FetchDailyPrices(context.Background(), day)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("err = %v, want ErrNoData", err)
		}
	})

	t.Run("invalid rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("912828YK0,N,1%,10/15/2022,,-5,1,1\n"))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.URL)
		_, err := c.FetchDailyPrices(context.Background(), day)
		if !errors.Is(err, model.ErrInvalidObservation) {
			t.Errorf("err = %v, want ErrInvalidObservation", err)
		}
	})
}
