package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied in order by Migrate. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS price_data (
		cusip       CHAR(9)       NOT NULL,
		price_date  DATE          NOT NULL,
		buy         NUMERIC(12,6),
		sell        NUMERIC(12,6),
		end_of_day  NUMERIC(12,6),
		PRIMARY KEY (cusip, price_date)
	)`,
	`CREATE INDEX IF NOT EXISTS price_data_date_idx ON price_data (price_date)`,
	`CREATE TABLE IF NOT EXISTS date_confirmation (
		price_date  DATE        PRIMARY KEY,
		confirmed   BOOLEAN     NOT NULL DEFAULT FALSE,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cusip_info (
		cusip             CHAR(9)  PRIMARY KEY,
		issue_date        DATE     NOT NULL,
		maturity_date     DATE     NOT NULL,
		security_type     TEXT     NOT NULL,
		security_term     TEXT     NOT NULL DEFAULT '',
		interest_rate     DOUBLE PRECISION NOT NULL DEFAULT 0,
		payment_frequency TEXT     NOT NULL DEFAULT '',
		spread            DOUBLE PRECISION NOT NULL DEFAULT 0,
		type_label        TEXT     NOT NULL DEFAULT ''
	)`,
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range Schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
