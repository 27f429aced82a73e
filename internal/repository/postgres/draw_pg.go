// internal/repository/postgres/draw_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
)

// DrawRepository implements repository.DrawRepository for PostgreSQL.
type DrawRepository struct{}

// NewDrawRepository creates a new DrawRepository.
func NewDrawRepository() repository.DrawRepository {
	return &DrawRepository{}
}

// CreateDrawResult inserts the single result of a lottery. The unique
// constraint on lottery_id turns a concurrent duplicate draw into
// ErrAlreadyDrawn at commit time rather than a double payout.
func (r *DrawRepository) CreateDrawResult(ctx context.Context, q repository.DBExecutor, result *domain.DrawResult) error {
	query := `INSERT INTO draw_results (lottery_id, winners, created_at)
              VALUES ($1, $2, $3) RETURNING id`
	err := q.QueryRowContext(ctx, query, result.LotteryID, result.Winners, result.CreatedAt).Scan(&result.ID)
	if err != nil {
		if errors.Is(mapError(err), util.ErrDuplicateEntry) {
			return util.ErrAlreadyDrawn
		}
		return fmt.Errorf("failed to create draw result: %w", mapError(err))
	}
	return nil
}

func (r *DrawRepository) GetDrawResultByLotteryID(ctx context.Context, q repository.DBExecutor, lotteryID int64) (*domain.DrawResult, error) {
	var result domain.DrawResult
	query := `SELECT id, lottery_id, winners, created_at FROM draw_results WHERE lottery_id = $1`
	err := q.GetContext(ctx, &result, query, lotteryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draw result for lottery %d: %w", lotteryID, mapError(err))
	}
	return &result, nil
}
