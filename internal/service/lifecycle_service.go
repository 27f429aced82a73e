// internal/service/lifecycle_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
	"golotto/pkg/db"
)

// CreateLotteryParams carries the configuration of a new lottery. Monetary
// fields are minor units.
type CreateLotteryParams struct {
	Name              string
	Prefix            string
	TicketPrice       int64
	MaxTickets        int
	MaxTicketsPerUser int
	WinnerStructure   domain.WinnerBands
	StartAt           time.Time
	EndAt             time.Time
	DrawAt            time.Time
}

// LifecycleService owns lottery setup and the lifecycle state machine. The
// sweep is the only driver of stored phase transitions besides the draw
// engine's terminal announcement.
type LifecycleService interface {
	// CreateLottery validates the configuration and stores the lottery in
	// the DRAFT phase, invisible to the sweep.
	CreateLottery(ctx context.Context, params CreateLotteryParams) (*domain.Lottery, error)
	// PublishLottery moves a DRAFT lottery into the time-derived phase
	// chain.
	PublishLottery(ctx context.Context, lotteryID int64) (*domain.Lottery, error)
	GetLottery(ctx context.Context, lotteryID int64) (*domain.Lottery, error)
	ListLotteries(ctx context.Context) ([]domain.Lottery, error)
	// Sweep recomputes every published lottery's phase at the given instant
	// and triggers due draws. It is idempotent and returns the IDs of
	// lotteries whose stored phase changed.
	Sweep(ctx context.Context, now time.Time) ([]int64, error)
}

type lifecycleService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	lotteryRepo repository.LotteryRepository
	draws       DrawService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	logger      *slog.Logger
}

// NewLifecycleService creates a new instance of LifecycleService.
func NewLifecycleService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	lotteryRepo repository.LotteryRepository,
	draws DrawService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) LifecycleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lifecycleService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		lotteryRepo: lotteryRepo,
		draws:       draws,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		logger:      logger,
	}
}

func (s *lifecycleService) CreateLottery(ctx context.Context, params CreateLotteryParams) (*domain.Lottery, error) {
	if err := validateLotteryParams(params); err != nil {
		return nil, err
	}

	lottery := domain.NewLottery(
		params.Name, params.Prefix, params.TicketPrice,
		params.MaxTickets, params.MaxTicketsPerUser, params.WinnerStructure,
		params.StartAt.UTC(), params.EndAt.UTC(), params.DrawAt.UTC(),
	)
	if err := s.lotteryRepo.CreateLottery(ctx, s.dbExecutor, lottery); err != nil {
		return nil, fmt.Errorf("create lottery: %w", err)
	}
	return lottery, nil
}

func validateLotteryParams(params CreateLotteryParams) error {
	switch {
	case params.Name == "",
		params.Prefix == "",
		strings.ContainsAny(params.Prefix, "- \t"),
		params.TicketPrice <= 0,
		params.MaxTickets <= 0,
		params.MaxTicketsPerUser <= 0,
		params.MaxTicketsPerUser > params.MaxTickets,
		!params.StartAt.Before(params.EndAt),
		params.DrawAt.Before(params.EndAt):
		return util.ErrInvalidInput
	}
	if err := params.WinnerStructure.Validate(); err != nil {
		return fmt.Errorf("%w: %s", util.ErrInvalidInput, err)
	}
	return nil
}

func (s *lifecycleService) PublishLottery(ctx context.Context, lotteryID int64) (*domain.Lottery, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("publish lottery: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("publish lottery: transaction controller does not implement DBExecutor")
	}

	lottery, err := s.lotteryRepo.GetLotteryByIDForUpdate(ctx, txExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("publish lottery %d: %w", lotteryID, err)
	}
	if lottery.Phase != domain.PhaseDraft {
		return nil, fmt.Errorf("publish lottery %d: %w: already published", lotteryID, util.ErrInvalidInput)
	}

	// Leaving DRAFT, the stored phase becomes whatever the clock says.
	lottery.Phase = domain.PhaseUpcoming
	phase := lottery.PhaseAt(time.Now().UTC())
	if err := s.lotteryRepo.UpdateLotteryPhase(ctx, txExecutor, lotteryID, phase); err != nil {
		return nil, fmt.Errorf("publish lottery %d: %w", lotteryID, err)
	}
	lottery.Phase = phase

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("publish lottery %d: failed to commit transaction: %w", lotteryID, err)
	}
	return lottery, nil
}

func (s *lifecycleService) GetLottery(ctx context.Context, lotteryID int64) (*domain.Lottery, error) {
	lottery, err := s.lotteryRepo.GetLotteryByID(ctx, s.dbExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("get lottery %d: %w", lotteryID, err)
	}
	return lottery, nil
}

func (s *lifecycleService) ListLotteries(ctx context.Context) ([]domain.Lottery, error) {
	lotteries, err := s.lotteryRepo.ListLotteries(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list lotteries: %w", err)
	}
	return lotteries, nil
}

// Sweep processes each lottery independently: a failure on one is logged and
// does not block the rest. The scheduler guarantees sweeps never overlap.
func (s *lifecycleService) Sweep(ctx context.Context, now time.Time) ([]int64, error) {
	lotteries, err := s.lotteryRepo.ListSweepableLotteries(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("sweep: failed to list lotteries: %w", err)
	}

	var transitioned []int64
	for _, lottery := range lotteries {
		changed, drawDue, err := s.sweepOne(ctx, lottery.ID, now)
		if err != nil {
			s.logger.Error("lifecycle sweep failed for lottery", "lottery_id", lottery.ID, "error", err)
			continue
		}
		if drawDue {
			if _, err := s.draws.Draw(ctx, lottery.ID, false); err != nil {
				if !errors.Is(err, util.ErrAlreadyDrawn) {
					s.logger.Error("scheduled draw failed", "lottery_id", lottery.ID, "error", err)
				}
			} else {
				changed = true
			}
		}
		if changed {
			transitioned = append(transitioned, lottery.ID)
		}
	}
	return transitioned, nil
}

// sweepOne re-reads one lottery under its row lock and stores the derived
// phase. A lottery that reaches draw time with zero tickets sold is
// announced directly; one with sales is reported back as due for a draw,
// which runs in its own transaction after this one commits.
func (s *lifecycleService) sweepOne(ctx context.Context, lotteryID int64, now time.Time) (changed bool, drawDue bool, err error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return false, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return false, false, fmt.Errorf("transaction controller does not implement DBExecutor")
	}

	lottery, err := s.lotteryRepo.GetLotteryByIDForUpdate(ctx, txExecutor, lotteryID)
	if err != nil {
		return false, false, err
	}

	phase := lottery.PhaseAt(now)
	if phase == domain.PhaseEnded && !now.Before(lottery.DrawAt) {
		if lottery.TicketsSold == 0 {
			// Nothing to draw; announce directly without a result record.
			phase = domain.PhaseResultAnnounced
		} else {
			drawDue = true
		}
	}

	if phase != lottery.Phase {
		if err := s.lotteryRepo.UpdateLotteryPhase(ctx, txExecutor, lotteryID, phase); err != nil {
			return false, false, err
		}
		changed = true
	}

	if err := s.commitTx(txController); err != nil {
		return false, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return changed, drawDue, nil
}
