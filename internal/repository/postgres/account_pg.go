// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
// Repositories are stateless; every method runs against the passed
// DBExecutor, which is either the connection pool or an open transaction.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (username, role, balance, disabled, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		account.Username, account.Role, account.Balance, account.Disabled,
		account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", mapError(err))
	}
	return nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	return r.getAccount(ctx, q, id, false)
}

func (r *AccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	return r.getAccount(ctx, q, id, true)
}

func (r *AccountRepository) getAccount(ctx context.Context, q repository.DBExecutor, id int64, forUpdate bool) (*domain.Account, error) {
	query := `SELECT id, username, role, balance, disabled, created_at, updated_at FROM accounts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var account domain.Account
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, mapError(err))
	}
	return &account, nil
}

func (r *AccountRepository) GetAccountByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, username, role, balance, disabled, created_at, updated_at FROM accounts WHERE username = $1`
	err := q.GetContext(ctx, &account, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by username %q: %w", username, mapError(err))
	}
	return &account, nil
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, q repository.DBExecutor, id int64, balance int64) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for account %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetAccountDisabled(ctx context.Context, q repository.DBExecutor, id int64, disabled bool) error {
	query := `UPDATE accounts SET disabled = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, disabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set disabled for account %d: %w", id, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for account %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
