// internal/repository/account_repo.go
package repository

import (
	"context"

	"golotto/internal/domain"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount adds a new account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByIDForUpdate retrieves an account and locks its row for the
	// remainder of the enclosing transaction, serializing concurrent wallet
	// operations on the same account.
	GetAccountByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByUsername retrieves an account by its unique username.
	GetAccountByUsername(ctx context.Context, q DBExecutor, username string) (*domain.Account, error)
	// UpdateAccountBalance sets the account balance to an absolute value.
	UpdateAccountBalance(ctx context.Context, q DBExecutor, id int64, balance int64) error
	// SetAccountDisabled soft-disables or re-enables an account.
	SetAccountDisabled(ctx context.Context, q DBExecutor, id int64, disabled bool) error
}

// LedgerRepository defines the interface for the append-only ledger.
type LedgerRepository interface {
	// CreateEntry appends one immutable ledger entry.
	CreateEntry(ctx context.Context, q DBExecutor, entry *domain.LedgerEntry) error
	// ListEntriesByAccount retrieves a page of an account's ledger history,
	// newest first, along with the total entry count.
	ListEntriesByAccount(ctx context.Context, q DBExecutor, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)
}
