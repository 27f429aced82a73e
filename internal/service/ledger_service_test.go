package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"golotto/internal/domain"
	"golotto/internal/util"
)

func newLedgerFixture() (*MockAccountRepository, *MockLedgerRepository, *MockTxController, LedgerService) {
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockDBBeginner := new(MockDBBeginner)
	mockDBExecutor := new(MockDBExecutor)
	mockTxController := new(MockTxController)

	beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
	svc := NewLedgerService(mockDBBeginner, mockDBExecutor, mockAccountRepo, mockLedgerRepo, beginTx, commitTx, rollbackTx)
	return mockAccountRepo, mockLedgerRepo, mockTxController, svc
}

func TestDebit(t *testing.T) {
	ctx := context.Background()
	accountID := int64(7)

	t.Run("SuccessfulDebit", func(t *testing.T) {
		mockAccountRepo, mockLedgerRepo, mockTxController, svc := newLedgerFixture()

		account := &domain.Account{ID: accountID, Username: "alice", Role: domain.RoleUser, Balance: 5000}

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", ctx, mock.Anything, accountID, int64(3000)).Return(nil).Once()
		mockLedgerRepo.On("CreateEntry", ctx, mock.Anything, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
			return e.AccountID == accountID && e.Amount == -2000 && e.BalanceAfter == 3000
		})).Return(nil).Once()

		balance, err := svc.Debit(ctx, accountID, 2000, "ticket purchase")

		assert.NoError(t, err)
		assert.Equal(t, int64(3000), balance)
		mock.AssertExpectationsForObjects(t, mockAccountRepo, mockLedgerRepo, mockTxController)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		mockAccountRepo, mockLedgerRepo, mockTxController, svc := newLedgerFixture()

		account := &domain.Account{ID: accountID, Username: "alice", Role: domain.RoleUser, Balance: 50}

		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		balance, err := svc.Debit(ctx, accountID, 100, "ticket purchase")

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Zero(t, balance)
		// Balance stays untouched and no ledger entry is written.
		mockAccountRepo.AssertNotCalled(t, "UpdateAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockLedgerRepo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("NotEligibleForWallet", func(t *testing.T) {
		mockAccountRepo, _, mockTxController, svc := newLedgerFixture()

		admin := &domain.Account{ID: accountID, Username: "root", Role: domain.RoleAdmin, Balance: 0}

		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(admin, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		_, err := svc.Debit(ctx, accountID, 100, "ticket purchase")

		assert.ErrorIs(t, err, util.ErrNotEligibleForWallet)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		mockAccountRepo, _, mockTxController, svc := newLedgerFixture()

		account := &domain.Account{ID: accountID, Username: "alice", Role: domain.RoleUser, Balance: 5000, Disabled: true}

		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		_, err := svc.Debit(ctx, accountID, 100, "ticket purchase")

		assert.ErrorIs(t, err, util.ErrAccountDisabled)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		mockAccountRepo, _, mockTxController, svc := newLedgerFixture()

		_, err := svc.Debit(ctx, accountID, 0, "nothing")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		// Rejected before the transaction is even opened.
		mockTxController.AssertNotCalled(t, "Rollback")
		mockAccountRepo.AssertNotCalled(t, "GetAccountByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		mockAccountRepo, _, mockTxController, svc := newLedgerFixture()

		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(nil, util.ErrNotFound).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		_, err := svc.Debit(ctx, accountID, 100, "ticket purchase")

		assert.ErrorIs(t, err, util.ErrNotFound)
		mockTxController.AssertNotCalled(t, "Commit")
	})
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	accountID := int64(7)

	t.Run("SuccessfulCredit", func(t *testing.T) {
		mockAccountRepo, mockLedgerRepo, mockTxController, svc := newLedgerFixture()

		account := &domain.Account{ID: accountID, Username: "alice", Role: domain.RoleUser, Balance: 100}

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockAccountRepo.On("GetAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
		mockAccountRepo.On("UpdateAccountBalance", ctx, mock.Anything, accountID, int64(10100)).Return(nil).Once()
		mockLedgerRepo.On("CreateEntry", ctx, mock.Anything, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
			return e.AccountID == accountID && e.Amount == 10000 && e.BalanceAfter == 10100
		})).Return(nil).Once()

		balance, err := svc.Credit(ctx, accountID, 10000, "prize payout")

		assert.NoError(t, err)
		assert.Equal(t, int64(10100), balance)
		mock.AssertExpectationsForObjects(t, mockAccountRepo, mockLedgerRepo, mockTxController)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		_, _, mockTxController, svc := newLedgerFixture()

		_, err := svc.Credit(ctx, accountID, -5, "bogus")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		mockTxController.AssertNotCalled(t, "Rollback")
	})
}

func TestOpenAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockAccountRepo, _, _, svc := newLedgerFixture()

		mockAccountRepo.On("CreateAccount", ctx, mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Username == "alice" && a.Role == domain.RoleUser && a.Balance == 0
		})).Return(nil).Once()

		account, err := svc.OpenAccount(ctx, "alice", domain.RoleUser)

		assert.NoError(t, err)
		assert.Equal(t, "alice", account.Username)
		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		_, _, _, svc := newLedgerFixture()

		_, err := svc.OpenAccount(ctx, "", domain.RoleUser)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, _, _, svc := newLedgerFixture()

		_, err := svc.OpenAccount(ctx, "alice", domain.Role("ghost"))

		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}
