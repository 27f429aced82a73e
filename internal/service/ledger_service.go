// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
	"golotto/pkg/db"
)

// LedgerService is the wallet ledger: the only component allowed to mutate
// account balances. Every mutation appends exactly one ledger entry in the
// same transaction, so the balance always equals the fold of the entries.
type LedgerService interface {
	OpenAccount(ctx context.Context, username string, role domain.Role) (*domain.Account, error)
	// Debit withdraws from an account in its own transaction and returns the
	// new balance.
	Debit(ctx context.Context, accountID, amount int64, description string) (int64, error)
	// Credit deposits into an account in its own transaction and returns the
	// new balance.
	Credit(ctx context.Context, accountID, amount int64, description string) (int64, error)
	// DebitIn runs the debit inside the caller's transaction. The caller
	// owns commit and rollback.
	DebitIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error)
	// CreditIn runs the credit inside the caller's transaction.
	CreditIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	// GetStatement returns a page of the account's ledger history, newest
	// first, with the total entry count.
	GetStatement(ctx context.Context, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)
	// DisableAccount soft-disables an account. Accounts are never deleted.
	DisableAccount(ctx context.Context, accountID int64) error
}

type ledgerService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

func (s *ledgerService) OpenAccount(ctx context.Context, username string, role domain.Role) (*domain.Account, error) {
	if username == "" {
		return nil, util.ErrInvalidInput
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, util.ErrInvalidInput
	}

	account := domain.NewAccount(username, role)
	if err := s.accountRepo.CreateAccount(ctx, s.dbExecutor, account); err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}
	return account, nil
}

func (s *ledgerService) Debit(ctx context.Context, accountID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("debit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("debit: transaction controller does not implement DBExecutor")
	}

	balance, err := s.DebitIn(ctx, txExecutor, accountID, amount, description)
	if err != nil {
		return 0, err
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("debit: failed to commit transaction: %w", err)
	}
	return balance, nil
}

func (s *ledgerService) Credit(ctx context.Context, accountID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("credit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("credit: transaction controller does not implement DBExecutor")
	}

	balance, err := s.CreditIn(ctx, txExecutor, accountID, amount, description)
	if err != nil {
		return 0, err
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("credit: failed to commit transaction: %w", err)
	}
	return balance, nil
}

// DebitIn locks the account row, so concurrent wallet operations on the same
// account serialize while different accounts proceed in parallel.
func (s *ledgerService) DebitIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, util.ErrInvalidInput
	}

	account, err := s.lockEligibleAccount(ctx, q, accountID)
	if err != nil {
		return 0, fmt.Errorf("debit account %d: %w", accountID, err)
	}

	if account.Balance-amount < 0 {
		return 0, util.ErrInsufficientFunds
	}
	newBalance := account.Balance - amount

	if err := s.accountRepo.UpdateAccountBalance(ctx, q, accountID, newBalance); err != nil {
		return 0, fmt.Errorf("debit account %d: %w", accountID, err)
	}
	entry := domain.NewLedgerEntry(accountID, -amount, newBalance, description)
	if err := s.ledgerRepo.CreateEntry(ctx, q, entry); err != nil {
		return 0, fmt.Errorf("debit account %d: %w", accountID, err)
	}

	return newBalance, nil
}

func (s *ledgerService) CreditIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, util.ErrInvalidInput
	}

	account, err := s.lockEligibleAccount(ctx, q, accountID)
	if err != nil {
		return 0, fmt.Errorf("credit account %d: %w", accountID, err)
	}

	newBalance := account.Balance + amount

	if err := s.accountRepo.UpdateAccountBalance(ctx, q, accountID, newBalance); err != nil {
		return 0, fmt.Errorf("credit account %d: %w", accountID, err)
	}
	entry := domain.NewLedgerEntry(accountID, amount, newBalance, description)
	if err := s.ledgerRepo.CreateEntry(ctx, q, entry); err != nil {
		return 0, fmt.Errorf("credit account %d: %w", accountID, err)
	}

	return newBalance, nil
}

func (s *ledgerService) lockEligibleAccount(ctx context.Context, q repository.DBExecutor, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByIDForUpdate(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	if !account.WalletEligible() {
		return nil, util.ErrNotEligibleForWallet
	}
	if account.Disabled {
		return nil, util.ErrAccountDisabled
	}
	return account, nil
}

func (s *ledgerService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", accountID, err)
	}
	return account, nil
}

func (s *ledgerService) GetStatement(ctx context.Context, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	if _, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID); err != nil {
		return nil, 0, fmt.Errorf("get statement for account %d: %w", accountID, err)
	}

	entries, totalCount, err := s.ledgerRepo.ListEntriesByAccount(ctx, s.dbExecutor, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get statement for account %d: %w", accountID, err)
	}
	return entries, totalCount, nil
}

func (s *ledgerService) DisableAccount(ctx context.Context, accountID int64) error {
	if err := s.accountRepo.SetAccountDisabled(ctx, s.dbExecutor, accountID, true); err != nil {
		return fmt.Errorf("disable account %d: %w", accountID, err)
	}
	return nil
}
