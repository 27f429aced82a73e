package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockTxController is a mock transaction. Embedding MockDBExecutor lets it
// satisfy repository.DBExecutor the way *sqlx.Tx does.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// txFuncs returns begin/commit/rollback functions routed to the given mock
// transaction controller.
func txFuncs(tx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tx, nil
		},
		func(t db.TxController) error {
			return tx.Commit()
		},
		func(t db.TxController) {
			_ = tx.Rollback()
		}
}

// fixedNow returns a clock pinned to the given instant.
func fixedNow(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// MockAccountRepository is a mock implementation of
// repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.Account, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalance(ctx context.Context, q repository.DBExecutor, id int64, balance int64) error {
	args := m.Called(ctx, q, id, balance)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountDisabled(ctx context.Context, q repository.DBExecutor, id int64, disabled bool) error {
	args := m.Called(ctx, q, id, disabled)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of
// repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, q repository.DBExecutor, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, q, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

// MockLotteryRepository is a mock implementation of
// repository.LotteryRepository.
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) CreateLottery(ctx context.Context, q repository.DBExecutor, lottery *domain.Lottery) error {
	args := m.Called(ctx, q, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetLotteryByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lottery, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetLotteryByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lottery, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) ListLotteries(ctx context.Context, q repository.DBExecutor) ([]domain.Lottery, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) ListSweepableLotteries(ctx context.Context, q repository.DBExecutor) ([]domain.Lottery, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) UpdateLotteryPhase(ctx context.Context, q repository.DBExecutor, id int64, phase domain.Phase) error {
	args := m.Called(ctx, q, id, phase)
	return args.Error(0)
}

func (m *MockLotteryRepository) IncrementTicketsSold(ctx context.Context, q repository.DBExecutor, id int64, delta int) error {
	args := m.Called(ctx, q, id, delta)
	return args.Error(0)
}

// MockAllocationRepository is a mock implementation of
// repository.AllocationRepository.
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) CreateAllocation(ctx context.Context, q repository.DBExecutor, alloc *domain.TicketAllocation) error {
	args := m.Called(ctx, q, alloc)
	return args.Error(0)
}

func (m *MockAllocationRepository) GetAllocation(ctx context.Context, q repository.DBExecutor, lotteryID, accountID int64) (*domain.TicketAllocation, error) {
	args := m.Called(ctx, q, lotteryID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByLottery(ctx context.Context, q repository.DBExecutor, lotteryID int64) ([]domain.TicketAllocation, error) {
	args := m.Called(ctx, q, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketAllocation), args.Error(1)
}

func (m *MockAllocationRepository) AppendTickets(ctx context.Context, q repository.DBExecutor, id int64, numbers []string, totalPaid int64) error {
	args := m.Called(ctx, q, id, numbers, totalPaid)
	return args.Error(0)
}

// MockDrawRepository is a mock implementation of repository.DrawRepository.
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) CreateDrawResult(ctx context.Context, q repository.DBExecutor, result *domain.DrawResult) error {
	args := m.Called(ctx, q, result)
	return args.Error(0)
}

func (m *MockDrawRepository) GetDrawResultByLotteryID(ctx context.Context, q repository.DBExecutor, lotteryID int64) (*domain.DrawResult, error) {
	args := m.Called(ctx, q, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

// MockLedgerService is a mock implementation of LedgerService used by the
// allocator and draw engine tests.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) OpenAccount(ctx context.Context, username string, role domain.Role) (*domain.Account, error) {
	args := m.Called(ctx, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID, amount int64, description string) (int64, error) {
	args := m.Called(ctx, accountID, amount, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID, amount int64, description string) (int64, error) {
	args := m.Called(ctx, accountID, amount, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) DebitIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error) {
	args := m.Called(ctx, q, accountID, amount, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) CreditIn(ctx context.Context, q repository.DBExecutor, accountID, amount int64, description string) (int64, error) {
	args := m.Called(ctx, q, accountID, amount, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) GetStatement(ctx context.Context, accountID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) DisableAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockDrawService is a mock implementation of DrawService used by the
// lifecycle sweep tests.
type MockDrawService struct {
	mock.Mock
}

func (m *MockDrawService) Draw(ctx context.Context, lotteryID int64, force bool) (*domain.DrawResult, error) {
	args := m.Called(ctx, lotteryID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

func (m *MockDrawService) GetResult(ctx context.Context, lotteryID int64) (*domain.DrawResult, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

// identityShuffle leaves the ticket order untouched so tests can predict
// winners.
func identityShuffle(n int, swap func(i, j int)) error {
	return nil
}

// reverseShuffle reverses the ticket order.
func reverseShuffle(n int, swap func(i, j int)) error {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
	return nil
}
