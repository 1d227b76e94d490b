// Package reference backfills SecurityReference records for CUSIPs seen in
// price data.
//
// A reference is resolved once from TreasuryDirect and cached forever in the
// store. Concurrent requests for the same CUSIP share one upstream call.
// Unknown CUSIPs and upstream failures are logged and skipped; they never
// fail price ingestion.
package reference
