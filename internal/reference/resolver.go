package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/rickgao/treasury-data/internal/metrics"
	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/treasury"
)

// Store persists references.
type Store interface {
	MissingReferences(ctx context.Context, cusips []string) ([]string, error)
	InsertReference(ctx context.Context, ref model.SecurityReference) (bool, error)
}

// Source looks a CUSIP up upstream.
type Source interface {
	ResolveReference(ctx context.Context, cusip string) (*model.SecurityReference, error)
}

// Summary counts the results of one EnsureReferences call.
type Summary struct {
	Missing  int // CUSIPs without a reference before the call
	Inserted int // references written by this call
	Unknown  int // CUSIPs the upstream does not know
	Failed   int // lookups or inserts that errored
}

// Resolver fills the reference table lazily.
type Resolver struct {
	store   Store
	source  Source
	metrics *metrics.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

// NewResolver creates a Resolver. m may be nil.
func NewResolver(store Store, source Source, m *metrics.Metrics, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:   store,
		source:  source,
		metrics: m,
		logger:  logger,
	}
}

// EnsureReferences resolves every distinct CUSIP of rows that has no
// reference yet. Only a failure to query the store is returned as an error.
func (r *Resolver) EnsureReferences(ctx context.Context, rows []model.PriceObservation) (Summary, error) {
	cusips := make([]string, 0, len(rows))
	for _, row := range rows {
		cusips = append(cusips, row.CUSIP)
	}
	slices.Sort(cusips)
	cusips = slices.Compact(cusips)

	var sum Summary
	if len(cusips) == 0 {
		return sum, nil
	}

	missing, err := r.store.MissingReferences(ctx, cusips)
	if err != nil {
		return sum, fmt.Errorf("find missing references: %w", err)
	}
	sum.Missing = len(missing)

	for _, cusip := range missing {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		result := r.resolve(ctx, cusip)
		r.metrics.ObserveReference(result)
		switch result {
		case resultInserted:
			sum.Inserted++
		case resultUnknown:
			sum.Unknown++
		case resultError:
			sum.Failed++
		}
	}

	if sum.Missing > 0 {
		r.logger.Info("references backfilled",
			"missing", sum.Missing,
			"inserted", sum.Inserted,
			"unknown", sum.Unknown,
			"failed", sum.Failed,
		)
	}
	return sum, nil
}

const (
	resultInserted = "inserted"
	resultExists   = "exists"
	resultUnknown  = "unknown"
	resultError    = "error"
)

// resolve looks up and stores one CUSIP. Callers racing on the same CUSIP
// share the result of the first.
func (r *Resolver) resolve(ctx context.Context, cusip string) string {
	v, _, _ := r.group.Do(cusip, func() (any, error) {
		ref, err := r.source.ResolveReference(ctx, cusip)
		if errors.Is(err, treasury.ErrUnknownCUSIP) {
			r.logger.Warn("unknown cusip, reference skipped", "cusip", cusip)
			return resultUnknown, nil
		}
		if err != nil {
			r.logger.Warn("reference lookup failed", "cusip", cusip, "error", err)
			return resultError, nil
		}

		inserted, err := r.store.InsertReference(ctx, *ref)
		if err != nil {
			r.logger.Warn("reference insert failed", "cusip", cusip, "error", err)
			return resultError, nil
		}
		if !inserted {
			return resultExists, nil
		}
		r.logger.Debug("reference stored",
			"cusip", cusip,
			"type", ref.SecurityType,
			"maturity", ref.MaturityDate.Format("2006-01-02"),
		)
		return resultInserted, nil
	})
	return v.(string)
}
