package reconcile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/reference"
	"github.com/rickgao/treasury-data/internal/treasury"
)

// memStore mirrors the SQL store: whole-date replace and OR-upsert of the flag.
type memStore struct {
	mu       sync.Mutex
	dates    map[time.Time]bool
	prices   map[time.Time][]model.PriceObservation
	replaces int
	err      error
}

func newMemStore() *memStore {
	return &memStore{
		dates:  make(map[time.Time]bool),
		prices: make(map[time.Time][]model.PriceObservation),
	}
}

func (s *memStore) DateRecord(_ context.Context, date time.Time) (*model.DateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	confirmed, ok := s.dates[date]
	if !ok {
		return nil, nil
	}
	return &model.DateRecord{Date: date, Confirmed: confirmed}, nil
}

func (s *memStore) MarkDate(_ context.Context, date time.Time, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates[date] = s.dates[date] || confirmed
	return nil
}

func (s *memStore) Prices(_ context.Context, date time.Time) ([]model.PriceObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.prices[date]), nil
}

func (s *memStore) ReplacePrices(_ context.Context, date time.Time, rows []model.PriceObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaces++
	sorted := slices.Clone(rows)
	slices.SortFunc(sorted, func(a, b model.PriceObservation) int { return strings.Compare(a.CUSIP, b.CUSIP) })
	s.prices[date] = sorted
	return nil
}

// fakeFetcher serves a queue of responses per date; the last one repeats.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[time.Time][][]model.PriceObservation
	failing   map[time.Time]error
	calls     int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[time.Time][][]model.PriceObservation),
		failing:   make(map[time.Time]error),
	}
}

func (f *fakeFetcher) publish(date time.Time, rows ...model.PriceObservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[date] = append(f.responses[date], rows)
}

func (f *fakeFetcher) FetchDailyPrices(_ context.Context, date time.Time) ([]model.PriceObservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failing[date]; err != nil {
		return nil, err
	}
	queue := f.responses[date]
	if len(queue) == 0 {
		return nil, treasury.ErrNoData
	}
	rows := queue[0]
	if len(queue) > 1 {
		f.responses[date] = queue[1:]
	}
	if len(rows) == 0 {
		return nil, treasury.ErrNoData
	}
	return slices.Clone(rows), nil
}

type fakeBackfiller struct {
	seen []string
	err  error
}

func (b *fakeBackfiller) EnsureReferences(_ context.Context, rows []model.PriceObservation) (reference.Summary, error) {
	for _, r := range rows {
		b.seen = append(b.seen, r.CUSIP)
	}
	return reference.Summary{}, b.err
}

var errUpstream = errors.New("upstream unavailable")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func price(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func row(cusip string, date time.Time, buy, sell, eod string) model.PriceObservation {
	return model.PriceObservation{
		CUSIP:    cusip,
		Date:     date,
		Buy:      price(buy),
		Sell:     price(sell),
		EndOfDay: price(eod),
	}
}
