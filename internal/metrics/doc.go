// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Update outcomes per date and update failures
//   - Upstream fetch latency
//   - Reference backfill results
//   - Yield computation failures
//   - HTTP requests served by the API
//
// Every method is safe on a nil *Metrics, so components can run without it.
package metrics
