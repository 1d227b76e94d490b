// Package reconcile implements the per-date confirmation state machine.
//
// A date moves Unseen -> Provisional -> Confirmed. Unseen dates are fetched
// and stored. Provisional dates are refetched, compared with what is stored,
// replaced when different and confirmed once old enough or fully priced.
// Confirmed dates are never touched again.
//
// The Runner drives Update over a range of dates, one at a time, either once
// (batch backfill) or on an interval (daily job).
package reconcile
