// internal/repository/postgres/allocation_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
)

// AllocationRepository implements repository.AllocationRepository for
// PostgreSQL. Ticket numbers are stored as a TEXT[] column via pq.Array.
type AllocationRepository struct{}

// NewAllocationRepository creates a new AllocationRepository.
func NewAllocationRepository() repository.AllocationRepository {
	return &AllocationRepository{}
}

func (r *AllocationRepository) CreateAllocation(ctx context.Context, q repository.DBExecutor, alloc *domain.TicketAllocation) error {
	query := `INSERT INTO ticket_allocations (lottery_id, account_id, ticket_numbers, quantity, total_paid, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		alloc.LotteryID, alloc.AccountID, alloc.TicketNumbers, alloc.Quantity, alloc.TotalPaid,
		alloc.CreatedAt, alloc.UpdatedAt,
	).Scan(&alloc.ID)
	if err != nil {
		return fmt.Errorf("failed to create ticket allocation: %w", mapError(err))
	}
	return nil
}

func (r *AllocationRepository) GetAllocation(ctx context.Context, q repository.DBExecutor, lotteryID, accountID int64) (*domain.TicketAllocation, error) {
	var alloc domain.TicketAllocation
	query := `SELECT id, lottery_id, account_id, ticket_numbers, quantity, total_paid, created_at, updated_at
              FROM ticket_allocations WHERE lottery_id = $1 AND account_id = $2`
	err := q.GetContext(ctx, &alloc, query, lotteryID, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get allocation for lottery %d account %d: %w", lotteryID, accountID, mapError(err))
	}
	return &alloc, nil
}

func (r *AllocationRepository) ListAllocationsByLottery(ctx context.Context, q repository.DBExecutor, lotteryID int64) ([]domain.TicketAllocation, error) {
	allocations := []domain.TicketAllocation{}
	query := `SELECT id, lottery_id, account_id, ticket_numbers, quantity, total_paid, created_at, updated_at
              FROM ticket_allocations WHERE lottery_id = $1 ORDER BY id`
	if err := q.SelectContext(ctx, &allocations, query, lotteryID); err != nil {
		return nil, fmt.Errorf("failed to list allocations for lottery %d: %w", lotteryID, mapError(err))
	}
	return allocations, nil
}

func (r *AllocationRepository) AppendTickets(ctx context.Context, q repository.DBExecutor, id int64, numbers []string, totalPaid int64) error {
	query := `UPDATE ticket_allocations
              SET ticket_numbers = ticket_numbers || $1,
                  quantity = quantity + $2,
                  total_paid = total_paid + $3,
                  updated_at = $4
              WHERE id = $5`
	result, err := q.ExecContext(ctx, query, pq.Array(numbers), len(numbers), totalPaid, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to append tickets to allocation %d: %w", id, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for allocation %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
