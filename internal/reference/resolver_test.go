package reference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/treasury"
)

type memStore struct {
	mu   sync.Mutex
	refs map[string]model.SecurityReference
	err  error
}

func newMemStore() *memStore {
	return &memStore{refs: make(map[string]model.SecurityReference)}
}

func (s *memStore) MissingReferences(_ context.Context, cusips []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []string
	for _, c := range cusips {
		if _, ok := s.refs[c]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) InsertReference(_ context.Context, ref model.SecurityReference) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.refs[ref.CUSIP]; ok {
		return false, nil
	}
	s.refs[ref.CUSIP] = ref
	return true, nil
}

type fakeSource struct {
	calls   atomic.Int32
	delay   time.Duration
	unknown map[string]bool
	failing map[string]bool
}

func (f *fakeSource) ResolveReference(_ context.Context, cusip string) (*model.SecurityReference, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.unknown[cusip] {
		return nil, treasury.ErrUnknownCUSIP
	}
	if f.failing[cusip] {
		return nil, errors.New("upstream down")
	}
	return &model.SecurityReference{
		CUSIP:        cusip,
		IssueDate:    time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate: time.Date(2030, 2, 15, 0, 0, 0, 0, time.UTC),
		SecurityType: model.Note,
		CouponRate:   0.015,
	}, nil
}

func rows(cusips ...string) []model.PriceObservation {
	out := make([]model.PriceObservation, 0, len(cusips))
	for _, c := range cusips {
		out = append(out, model.PriceObservation{CUSIP: c})
	}
	return out
}

func TestEnsureReferences_ResolvesOnce(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{}
	r := NewResolver(store, src, nil, nil)
	ctx := context.Background()

	sum, err := r.EnsureReferences(ctx, rows("912828YY0", "912828YY0", "912810RZ3"))
	require.NoError(t, err)
	assert.Equal(t, Summary{Missing: 2, Inserted: 2}, sum)

	sum, err = r.EnsureReferences(ctx, rows("912828YY0"))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	assert.Len(t, store.refs, 2)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestEnsureReferences_SkipsUnknownAndFailures(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{
		unknown: map[string]bool{"912796XX1": true},
		failing: map[string]bool{"912810RZ3": true},
	}
	r := NewResolver(store, src, nil, nil)

	sum, err := r.EnsureReferences(context.Background(), rows("912828YY0", "912796XX1", "912810RZ3"))
	require.NoError(t, err)
	assert.Equal(t, Summary{Missing: 3, Inserted: 1, Unknown: 1, Failed: 1}, sum)
	assert.Contains(t, store.refs, "912828YY0")
	assert.NotContains(t, store.refs, "912796XX1")

	// Skipped CUSIPs are retried on the next call.
	src.failing = nil
	sum, err = r.EnsureReferences(context.Background(), rows("912810RZ3"))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)
}

func TestEnsureReferences_StoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db gone")
	r := NewResolver(store, &fakeSource{}, nil, nil)

	_, err := r.EnsureReferences(context.Background(), rows("912828YY0"))
	assert.ErrorContains(t, err, "db gone")
}

func TestEnsureReferences_ConcurrentCallersShareLookup(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{delay: 50 * time.Millisecond}
	r := NewResolver(store, src, nil, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.EnsureReferences(context.Background(), rows("912828YY0"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.refs, 1)
	assert.Less(t, src.calls.Load(), int32(10))
}
