// Package database provides the PostgreSQL connection pool and schema.
//
// Tables:
//   - price_data: one row per (cusip, price_date)
//   - date_confirmation: one row per price_date that produced data
//   - cusip_info: one row per cusip, written once
package database
