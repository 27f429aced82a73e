// internal/repository/postgres/lottery_pg.go
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

const lotteryColumns = `id, name, prefix, ticket_price, max_tickets, max_tickets_per_user,
	winner_structure, start_at, end_at, draw_at, tickets_sold, phase, created_at, updated_at`

// LotteryRepository implements repository.LotteryRepository for PostgreSQL.
type LotteryRepository struct{}

// NewLotteryRepository creates a new LotteryRepository.
func NewLotteryRepository() repository.LotteryRepository {
	return &LotteryRepository{}
}

func (r *LotteryRepository) CreateLottery(ctx context.Context, q repository.DBExecutor, lottery *domain.Lottery) error {
	query := `INSERT INTO lotteries (name, prefix, ticket_price, max_tickets, max_tickets_per_user,
	              winner_structure, start_at, end_at, draw_at, tickets_sold, phase, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		lottery.Name, lottery.Prefix, lottery.TicketPrice, lottery.MaxTickets, lottery.MaxTicketsPerUser,
		lottery.WinnerStructure, lottery.StartAt, lottery.EndAt, lottery.DrawAt,
		lottery.TicketsSold, lottery.Phase, lottery.CreatedAt, lottery.UpdatedAt,
	).Scan(&lottery.ID)
	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", mapError(err))
	}
	return nil
}

func (r *LotteryRepository) GetLotteryByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lottery, error) {
	return r.getLottery(ctx, q, id, false)
}

func (r *LotteryRepository) GetLotteryByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Lottery, error) {
	return r.getLottery(ctx, q, id, true)
}

func (r *LotteryRepository) getLottery(ctx context.Context, q repository.DBExecutor, id int64, forUpdate bool) (*domain.Lottery, error) {
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var lottery domain.Lottery
	err := q.GetContext(ctx, &lottery, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lottery by ID %d: %w", id, mapError(err))
	}
	return &lottery, nil
}

func (r *LotteryRepository) ListLotteries(ctx context.Context, q repository.DBExecutor) ([]domain.Lottery, error) {
	lotteries := []domain.Lottery{}
	query := `SELECT ` + lotteryColumns + ` FROM lotteries ORDER BY created_at DESC, id DESC`
	if err := q.SelectContext(ctx, &lotteries, query); err != nil {
		return nil, fmt.Errorf("failed to list lotteries: %w", mapError(err))
	}
	return lotteries, nil
}

func (r *LotteryRepository) ListSweepableLotteries(ctx context.Context, q repository.DBExecutor) ([]domain.Lottery, error) {
	lotteries := []domain.Lottery{}
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE phase NOT IN ($1, $2) ORDER BY id`
	if err := q.SelectContext(ctx, &lotteries, query, domain.PhaseDraft, domain.PhaseResultAnnounced); err != nil {
		return nil, fmt.Errorf("failed to list sweepable lotteries: %w", mapError(err))
	}
	return lotteries, nil
}

func (r *LotteryRepository) UpdateLotteryPhase(ctx context.Context, q repository.DBExecutor, id int64, phase domain.Phase) error {
	query := `UPDATE lotteries SET phase = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, phase, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update phase for lottery %d: %w", id, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for lottery %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *LotteryRepository) IncrementTicketsSold(ctx context.Context, q repository.DBExecutor, id int64, delta int) error {
	query := `UPDATE lotteries SET tickets_sold = tickets_sold + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to increment tickets sold for lottery %d: %w", id, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for lottery %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
