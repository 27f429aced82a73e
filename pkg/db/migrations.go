// pkg/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// ExecerContext is the subset of *sql.DB / *sqlx.DB needed to run migrations.
type ExecerContext interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// migrations are applied in order on startup. All statements are idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id          BIGSERIAL PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		role        TEXT NOT NULL,
		balance     BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		disabled    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id             BIGSERIAL PRIMARY KEY,
		account_id     BIGINT NOT NULL REFERENCES accounts(id),
		amount         BIGINT NOT NULL,
		balance_after  BIGINT NOT NULL,
		description    TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries (account_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS lotteries (
		id                   BIGSERIAL PRIMARY KEY,
		name                 TEXT NOT NULL,
		prefix               TEXT NOT NULL,
		ticket_price         BIGINT NOT NULL CHECK (ticket_price > 0),
		max_tickets          INT NOT NULL CHECK (max_tickets > 0),
		max_tickets_per_user INT NOT NULL CHECK (max_tickets_per_user > 0),
		winner_structure     JSONB NOT NULL,
		start_at             TIMESTAMPTZ NOT NULL,
		end_at               TIMESTAMPTZ NOT NULL,
		draw_at              TIMESTAMPTZ NOT NULL,
		tickets_sold         INT NOT NULL DEFAULT 0 CHECK (tickets_sold <= max_tickets),
		phase                TEXT NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_allocations (
		id             BIGSERIAL PRIMARY KEY,
		lottery_id     BIGINT NOT NULL REFERENCES lotteries(id),
		account_id     BIGINT NOT NULL REFERENCES accounts(id),
		ticket_numbers TEXT[] NOT NULL,
		quantity       INT NOT NULL CHECK (quantity > 0),
		total_paid     BIGINT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (lottery_id, account_id)
	)`,
	`CREATE TABLE IF NOT EXISTS draw_results (
		id          BIGSERIAL PRIMARY KEY,
		lottery_id  BIGINT NOT NULL UNIQUE REFERENCES lotteries(id),
		winners     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// ApplyMigrations runs every schema statement in order.
func ApplyMigrations(ctx context.Context, db ExecerContext) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
