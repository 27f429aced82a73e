// internal/service/draw_service.go
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golotto/internal/domain"
	"golotto/internal/repository"
	"golotto/internal/util"
	"golotto/pkg/db"
)

// ShuffleFunc permutes n elements through the swap callback. The default is
// an unbiased Fisher-Yates over crypto/rand; tests inject a deterministic
// one.
type ShuffleFunc func(n int, swap func(i, j int)) error

// CryptoShuffle is a Fisher-Yates shuffle backed by crypto/rand. Fairness of
// the draw depends on this permutation being uniform, so a comparator-based
// or math/rand shuffle is not acceptable here.
func CryptoShuffle(n int, swap func(i, j int)) error {
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to read random index: %w", err)
		}
		swap(i, int(j.Int64()))
	}
	return nil
}

// DrawService is the draw engine: it randomly assigns sold tickets to the
// configured rank bands, pays the winners through the wallet ledger and
// records the single immutable result, all in one transaction.
type DrawService interface {
	// Draw executes the draw of a lottery. Unless force is set, the lottery
	// must have ended and reached its draw time. A lottery is drawn at most
	// once; a repeat call fails with ErrAlreadyDrawn and has no effect.
	Draw(ctx context.Context, lotteryID int64, force bool) (*domain.DrawResult, error)
	GetResult(ctx context.Context, lotteryID int64) (*domain.DrawResult, error)
}

type drawService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	lotteryRepo repository.LotteryRepository
	allocRepo   repository.AllocationRepository
	drawRepo    repository.DrawRepository
	ledger      LedgerService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	shuffle     ShuffleFunc
	now         func() time.Time
}

// NewDrawService creates a new instance of DrawService. A nil shuffle
// defaults to CryptoShuffle, a nil nowFn to the wall clock.
func NewDrawService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	lotteryRepo repository.LotteryRepository,
	allocRepo repository.AllocationRepository,
	drawRepo repository.DrawRepository,
	ledger LedgerService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	shuffle ShuffleFunc,
	nowFn func() time.Time,
) DrawService {
	if shuffle == nil {
		shuffle = CryptoShuffle
	}
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &drawService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		lotteryRepo: lotteryRepo,
		allocRepo:   allocRepo,
		drawRepo:    drawRepo,
		ledger:      ledger,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		shuffle:     shuffle,
		now:         nowFn,
	}
}

// soldTicket is one (ticketNumber, accountID) pair entering the draw.
type soldTicket struct {
	number    string
	accountID int64
}

func (s *drawService) Draw(ctx context.Context, lotteryID int64, force bool) (*domain.DrawResult, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("draw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("draw: transaction controller does not implement DBExecutor")
	}

	// The lottery row lock conflicts with in-flight purchases, so the draw
	// observes every committed purchase and nothing else.
	lottery, err := s.lotteryRepo.GetLotteryByIDForUpdate(ctx, txExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("draw: failed to get lottery %d: %w", lotteryID, err)
	}

	now := s.now()
	phase := lottery.PhaseAt(now)
	if phase == domain.PhaseResultAnnounced {
		return nil, util.ErrAlreadyDrawn
	}
	if phase == domain.PhaseDraft {
		return nil, fmt.Errorf("draw: lottery %d: %w: not published", lotteryID, util.ErrInvalidInput)
	}
	if _, err := s.drawRepo.GetDrawResultByLotteryID(ctx, txExecutor, lotteryID); err == nil {
		return nil, util.ErrAlreadyDrawn
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("draw: failed to check existing result for lottery %d: %w", lotteryID, err)
	}

	if force {
		// An administrator may draw early. The lottery is ended first, in
		// the same transaction, so no further tickets can be sold against
		// an announced result.
		if phase != domain.PhaseEnded {
			if err := s.lotteryRepo.UpdateLotteryPhase(ctx, txExecutor, lotteryID, domain.PhaseEnded); err != nil {
				return nil, fmt.Errorf("draw: failed to end lottery %d: %w", lotteryID, err)
			}
		}
	} else if phase != domain.PhaseEnded || now.Before(lottery.DrawAt) {
		return nil, util.ErrDrawNotReady
	}

	allocations, err := s.allocRepo.ListAllocationsByLottery(ctx, txExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("draw: failed to list allocations for lottery %d: %w", lotteryID, err)
	}
	tickets := make([]soldTicket, 0, lottery.TicketsSold)
	for _, alloc := range allocations {
		for _, number := range alloc.TicketNumbers {
			tickets = append(tickets, soldTicket{number: number, accountID: alloc.AccountID})
		}
	}
	if len(tickets) == 0 {
		return nil, util.ErrNoTicketsSold
	}

	if err := s.shuffle(len(tickets), func(i, j int) {
		tickets[i], tickets[j] = tickets[j], tickets[i]
	}); err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}

	winners, err := s.payWinners(ctx, txExecutor, lottery, tickets)
	if err != nil {
		return nil, err
	}

	result := domain.NewDrawResult(lotteryID, winners)
	if err := s.drawRepo.CreateDrawResult(ctx, txExecutor, result); err != nil {
		return nil, fmt.Errorf("draw: failed to persist result for lottery %d: %w", lotteryID, err)
	}
	if err := s.lotteryRepo.UpdateLotteryPhase(ctx, txExecutor, lotteryID, domain.PhaseResultAnnounced); err != nil {
		return nil, fmt.Errorf("draw: failed to announce lottery %d: %w", lotteryID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("draw: failed to commit transaction: %w", err)
	}

	return result, nil
}

// payWinners walks the shuffled tickets in consecutive bands sized by the
// winner structure, crediting each winner's prize. Running out of tickets
// before all bands are filled is not an error.
func (s *drawService) payWinners(ctx context.Context, q repository.DBExecutor, lottery *domain.Lottery, tickets []soldTicket) (domain.Winners, error) {
	winners := domain.Winners{}
	rank := 1
	next := 0
	for _, band := range lottery.WinnerStructure {
		for i := 0; i < band.Size() && next < len(tickets); i++ {
			ticket := tickets[next]
			description := fmt.Sprintf("prize for rank %d in lottery %q (ticket %s)", rank, lottery.Name, ticket.number)
			if _, err := s.ledger.CreditIn(ctx, q, ticket.accountID, band.PrizeAmount, description); err != nil {
				return nil, fmt.Errorf("draw: failed to pay rank %d: %w", rank, err)
			}
			winners = append(winners, domain.Winner{
				Rank:         rank,
				TicketNumber: ticket.number,
				AccountID:    ticket.accountID,
				PrizeAmount:  band.PrizeAmount,
			})
			rank++
			next++
		}
		if next >= len(tickets) {
			break
		}
	}
	return winners, nil
}

func (s *drawService) GetResult(ctx context.Context, lotteryID int64) (*domain.DrawResult, error) {
	result, err := s.drawRepo.GetDrawResultByLotteryID(ctx, s.dbExecutor, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("get draw result for lottery %d: %w", lotteryID, err)
	}
	return result, nil
}
