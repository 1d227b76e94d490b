// Package model defines shared data types used across the treasury data platform.
//
// All types mirror the database schema created by the migrate command.
//
// Conventions:
//   - Prices: decimal per 100 of face value, NULL when the source left the field blank
//   - Dates: time.Time truncated to midnight UTC (see Day)
//   - Rates: decimal fractions (0.02 = 2%)
//   - IDs: 9 character CUSIP strings
package model
