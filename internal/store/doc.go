// Package store persists prices, date confirmations and security references
// in PostgreSQL.
//
// Price rows for a date are only ever replaced as a whole, inside one
// transaction. The confirmation flag is upserted with OR so a confirmed date
// can never go back to provisional. Reference rows are insert-only.
package store
