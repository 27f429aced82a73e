// internal/repository/lottery_repo.go
package repository

import (
	"context"

	"golotto/internal/domain"
)

// LotteryRepository defines the interface for lottery data operations.
type LotteryRepository interface {
	// CreateLottery adds a new lottery using the provided DBExecutor.
	CreateLottery(ctx context.Context, q DBExecutor, lottery *domain.Lottery) error
	// GetLotteryByID retrieves a lottery by its ID.
	GetLotteryByID(ctx context.Context, q DBExecutor, id int64) (*domain.Lottery, error)
	// GetLotteryByIDForUpdate retrieves a lottery and locks its row for the
	// remainder of the enclosing transaction. Purchases, draws and lifecycle
	// updates for one lottery all take this lock, so they serialize.
	GetLotteryByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Lottery, error)
	// ListLotteries retrieves all lotteries, newest first.
	ListLotteries(ctx context.Context, q DBExecutor) ([]domain.Lottery, error)
	// ListSweepableLotteries retrieves lotteries whose phase the sweep may
	// still change (published and not yet announced).
	ListSweepableLotteries(ctx context.Context, q DBExecutor) ([]domain.Lottery, error)
	// UpdateLotteryPhase sets the stored lifecycle phase.
	UpdateLotteryPhase(ctx context.Context, q DBExecutor, id int64, phase domain.Phase) error
	// IncrementTicketsSold adds delta to the tickets_sold counter.
	IncrementTicketsSold(ctx context.Context, q DBExecutor, id int64, delta int) error
}

// AllocationRepository defines the interface for ticket allocation data.
type AllocationRepository interface {
	// CreateAllocation inserts the first allocation of an account in a
	// lottery.
	CreateAllocation(ctx context.Context, q DBExecutor, alloc *domain.TicketAllocation) error
	// GetAllocation retrieves the allocation of one account in one lottery.
	GetAllocation(ctx context.Context, q DBExecutor, lotteryID, accountID int64) (*domain.TicketAllocation, error)
	// ListAllocationsByLottery retrieves every allocation of a lottery.
	ListAllocationsByLottery(ctx context.Context, q DBExecutor, lotteryID int64) ([]domain.TicketAllocation, error)
	// AppendTickets appends ticket numbers to an existing allocation and
	// bumps its quantity and total paid.
	AppendTickets(ctx context.Context, q DBExecutor, id int64, numbers []string, totalPaid int64) error
}

// DrawRepository defines the interface for draw results.
type DrawRepository interface {
	// CreateDrawResult inserts the single result of a lottery. A second
	// insert for the same lottery violates the unique constraint.
	CreateDrawResult(ctx context.Context, q DBExecutor, result *domain.DrawResult) error
	// GetDrawResultByLotteryID retrieves the result of a lottery.
	GetDrawResultByLotteryID(ctx context.Context, q DBExecutor, lotteryID int64) (*domain.DrawResult, error)
}
