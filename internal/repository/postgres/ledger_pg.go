// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"fmt"

	"golotto/internal/domain"
	"golotto/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
// Entries are append-only; there is deliberately no update or delete.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() repository.LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (account_id, amount, balance_after, description, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		entry.AccountID, entry.Amount, entry.BalanceAfter, entry.Description, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", mapError(err))
	}
	return nil
}

func (r *LedgerRepository) ListEntriesByAccount(ctx context.Context, q repository.DBExecutor, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	entries := []domain.LedgerEntry{}

	query := `
		SELECT id, account_id, amount, balance_after, description, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &entries, query, accountID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ledger entries for account %d: %w", accountID, mapError(err))
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, accountID); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries for account %d: %w", accountID, mapError(err))
	}

	return entries, totalCount, nil
}
