// internal/domain/account.go
package domain

import "time"

// Role determines what an account may do. Only user accounts hold a wallet.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account represents a participant in the lottery system. The balance is
// stored in minor units and is mutated only through the wallet ledger.
// Accounts are never deleted, only soft-disabled.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Role      Role      `db:"role" json:"role"`
	Balance   int64     `db:"balance" json:"balance"`
	Disabled  bool      `db:"disabled" json:"disabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account instance with a zero balance.
func NewAccount(username string, role Role) *Account {
	now := time.Now().UTC()
	return &Account{
		Username:  username,
		Role:      role,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WalletEligible reports whether the account supports wallet operations.
func (a *Account) WalletEligible() bool {
	return a.Role == RoleUser
}

// LedgerEntry is an immutable, append-only record of a single balance
// mutation. Amount is signed: credits are positive, debits negative.
// The current account balance always equals the sum of its entry amounts.
type LedgerEntry struct {
	ID           int64     `db:"id" json:"id"`
	AccountID    int64     `db:"account_id" json:"account_id"`
	Amount       int64     `db:"amount" json:"amount"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewLedgerEntry creates a ledger entry for a balance mutation.
func NewLedgerEntry(accountID, amount, balanceAfter int64, description string) *LedgerEntry {
	return &LedgerEntry{
		AccountID:    accountID,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
}
