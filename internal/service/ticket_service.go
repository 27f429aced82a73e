// internal/service/ticket_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
	"golotto/pkg/db"
)

// TicketService is the ticket allocator: it owns the sold/available
// ticket-number space of every lottery and charges buyers through the
// wallet ledger.
type TicketService interface {
	// Purchase sells quantity tickets of a lottery to an account and returns
	// the assigned ticket numbers. When explicitNumbers is non-empty, those
	// exact tickets are requested; otherwise the first available numbers in
	// ascending order are assigned. Availability scan, payment, allocation
	// and the sold counter all commit in one transaction holding the
	// lottery row lock, so concurrent purchases of one lottery serialize.
	Purchase(ctx context.Context, lotteryID, accountID int64, quantity int, explicitNumbers []string) ([]string, error)
	GetAllocation(ctx context.Context, lotteryID, accountID int64) (*domain.TicketAllocation, error)
	ListAllocations(ctx context.Context, lotteryID int64) ([]domain.TicketAllocation, error)
}

type ticketService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	lotteryRepo repository.LotteryRepository
	allocRepo   repository.AllocationRepository
	ledger      LedgerService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	now         func() time.Time
}

// NewTicketService creates a new instance of TicketService. A nil nowFn
// defaults to the wall clock.
func NewTicketService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	lotteryRepo repository.LotteryRepository,
	allocRepo repository.AllocationRepository,
	ledger LedgerService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	nowFn func() time.Time,
) TicketService {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &ticketService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		lotteryRepo: lotteryRepo,
		allocRepo:   allocRepo,
		ledger:      ledger,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		now:         nowFn,
	}
}

func (s *ticketService) Purchase(ctx context.Context, lotteryID, accountID int64, quantity int, explicitNumbers []string) ([]string, error) {
	if quantity <= 0 {
		return nil, util.ErrInvalidInput
	}
	if len(explicitNumbers) > 0 && len(explicitNumbers) != quantity {
		return nil, util.ErrQuantityMismatch
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("purchase: transaction controller does not implement DBExecutor")
	}

	// The row lock serializes every purchase and draw for this lottery.
	lottery, err := s.lotteryRepo.GetLotteryByIDForUpdate(ctx, txExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to get lottery %d: %w", lotteryID, err)
	}
	if lottery.PhaseAt(s.now()) != domain.PhaseActive {
		return nil, util.ErrLotteryNotActive
	}

	allocations, err := s.allocRepo.ListAllocationsByLottery(ctx, txExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("purchase: failed to list allocations for lottery %d: %w", lotteryID, err)
	}
	sold := make(map[string]bool, lottery.TicketsSold)
	for _, alloc := range allocations {
		for _, number := range alloc.TicketNumbers {
			sold[number] = true
		}
	}

	var existing *domain.TicketAllocation
	for i := range allocations {
		if allocations[i].AccountID == accountID {
			existing = &allocations[i]
			break
		}
	}
	existingQuantity := 0
	if existing != nil {
		existingQuantity = existing.Quantity
	}
	if existingQuantity+quantity > lottery.MaxTicketsPerUser {
		return nil, util.ErrPerUserLimitExceeded
	}

	assigned, err := s.assignNumbers(lottery, sold, quantity, explicitNumbers)
	if err != nil {
		return nil, err
	}

	totalCost := lottery.TicketPrice * int64(quantity)
	description := fmt.Sprintf("purchase of %d ticket(s) in lottery %q", quantity, lottery.Name)
	if _, err := s.ledger.DebitIn(ctx, txExecutor, accountID, totalCost, description); err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	if existing != nil {
		if err := s.allocRepo.AppendTickets(ctx, txExecutor, existing.ID, assigned, totalCost); err != nil {
			return nil, fmt.Errorf("purchase: failed to append tickets: %w", err)
		}
	} else {
		alloc := domain.NewTicketAllocation(lotteryID, accountID, assigned, totalCost)
		if err := s.allocRepo.CreateAllocation(ctx, txExecutor, alloc); err != nil {
			return nil, fmt.Errorf("purchase: failed to create allocation: %w", err)
		}
	}

	if err := s.lotteryRepo.IncrementTicketsSold(ctx, txExecutor, lotteryID, quantity); err != nil {
		return nil, fmt.Errorf("purchase: failed to increment tickets sold: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("purchase: failed to commit transaction: %w", err)
	}

	return assigned, nil
}

// assignNumbers validates explicitly requested tickets against the sold set,
// or assigns the first available numbers in ascending order. Assignment is
// deliberately deterministic; randomness belongs to the draw alone.
func (s *ticketService) assignNumbers(lottery *domain.Lottery, sold map[string]bool, quantity int, explicitNumbers []string) ([]string, error) {
	if len(explicitNumbers) > 0 {
		var unavailable []string
		seen := make(map[string]bool, len(explicitNumbers))
		for _, number := range explicitNumbers {
			if !lottery.ValidTicketNumber(number) || sold[number] || seen[number] {
				unavailable = append(unavailable, number)
				continue
			}
			seen[number] = true
		}
		if len(unavailable) > 0 {
			return nil, &util.TicketUnavailableError{Numbers: unavailable}
		}
		return explicitNumbers, nil
	}

	assigned := make([]string, 0, quantity)
	for n := 1; n <= lottery.MaxTickets && len(assigned) < quantity; n++ {
		number := lottery.TicketNumber(n)
		if !sold[number] {
			assigned = append(assigned, number)
		}
	}
	if len(assigned) < quantity {
		return nil, fmt.Errorf("%w: only %d ticket(s) remaining", util.ErrTicketUnavailable, len(assigned))
	}
	return assigned, nil
}

func (s *ticketService) GetAllocation(ctx context.Context, lotteryID, accountID int64) (*domain.TicketAllocation, error) {
	alloc, err := s.allocRepo.GetAllocation(ctx, s.dbExecutor, lotteryID, accountID)
	if err != nil {
		return nil, fmt.Errorf("get allocation for lottery %d account %d: %w", lotteryID, accountID, err)
	}
	return alloc, nil
}

func (s *ticketService) ListAllocations(ctx context.Context, lotteryID int64) ([]domain.TicketAllocation, error) {
	allocations, err := s.allocRepo.ListAllocationsByLottery(ctx, s.dbExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("list allocations for lottery %d: %w", lotteryID, err)
	}
	return allocations, nil
}
