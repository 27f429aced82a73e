// internal/api/handler/lottery.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"golotto/internal/domain"
	"golotto/internal/service"
	"golotto/internal/util"
)

// LotteryHandler handles HTTP requests for lottery setup and ticket sales.
type LotteryHandler struct {
	lifecycle service.LifecycleService
	tickets   service.TicketService
	logger    *slog.Logger
}

// NewLotteryHandler creates a new LotteryHandler.
func NewLotteryHandler(lifecycle service.LifecycleService, tickets service.TicketService, logger *slog.Logger) *LotteryHandler {
	return &LotteryHandler{
		lifecycle: lifecycle,
		tickets:   tickets,
		logger:    logger,
	}
}

func lotteryIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "lotteryID"), 10, 64)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// WinnerBandRequest is one prize band in a create request. The prize amount
// is a decimal string such as "100.00".
type WinnerBandRequest struct {
	FromRank    int    `json:"from_rank"`
	ToRank      int    `json:"to_rank"`
	PrizeAmount string `json:"prize_amount"`
}

// CreateLotteryRequest represents the request body for creating a lottery.
// Timestamps are RFC 3339.
type CreateLotteryRequest struct {
	Name              string              `json:"name"`
	Prefix            string              `json:"prefix"`
	TicketPrice       string              `json:"ticket_price"`
	MaxTickets        int                 `json:"max_tickets"`
	MaxTicketsPerUser int                 `json:"max_tickets_per_user"`
	WinnerStructure   []WinnerBandRequest `json:"winner_structure"`
	StartAt           time.Time           `json:"start_at"`
	EndAt             time.Time           `json:"end_at"`
	DrawAt            time.Time           `json:"draw_at"`
}

// CreateLottery handles the create lottery request.
// POST /lotteries
func (h *LotteryHandler) CreateLottery(w http.ResponseWriter, r *http.Request) {
	var req CreateLotteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	price, err := domain.ParseAmount(req.TicketPrice)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	bands := make(domain.WinnerBands, 0, len(req.WinnerStructure))
	for _, b := range req.WinnerStructure {
		prize, err := domain.ParseAmount(b.PrizeAmount)
		if err != nil {
			respondWithError(h.logger, w, err)
			return
		}
		bands = append(bands, domain.WinnerBand{
			FromRank:    b.FromRank,
			ToRank:      b.ToRank,
			PrizeAmount: prize,
		})
	}

	lottery, err := h.lifecycle.CreateLottery(r.Context(), service.CreateLotteryParams{
		Name:              req.Name,
		Prefix:            req.Prefix,
		TicketPrice:       price,
		MaxTickets:        req.MaxTickets,
		MaxTicketsPerUser: req.MaxTicketsPerUser,
		WinnerStructure:   bands,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		DrawAt:            req.DrawAt,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, lottery)
}

// PublishLottery handles the publish request.
// POST /lotteries/{lotteryID}/publish
func (h *LotteryHandler) PublishLottery(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	lottery, err := h.lifecycle.PublishLottery(r.Context(), lotteryID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, lottery)
}

// GetLottery handles the get lottery request.
// GET /lotteries/{lotteryID}
func (h *LotteryHandler) GetLottery(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	lottery, err := h.lifecycle.GetLottery(r.Context(), lotteryID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, lottery)
}

// ListLotteries handles the list lotteries request.
// GET /lotteries
func (h *LotteryHandler) ListLotteries(w http.ResponseWriter, r *http.Request) {
	lotteries, err := h.lifecycle.ListLotteries(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"data": lotteries,
	})
}

// PurchaseRequest represents the request body for buying tickets. Explicit
// ticket numbers are optional; when omitted, numbers are auto-assigned.
type PurchaseRequest struct {
	AccountID     int64    `json:"account_id"`
	Quantity      int      `json:"quantity"`
	TicketNumbers []string `json:"ticket_numbers,omitempty"`
}

// Purchase handles the ticket purchase request.
// POST /lotteries/{lotteryID}/tickets
func (h *LotteryHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.AccountID == 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	numbers, err := h.tickets.Purchase(r.Context(), lotteryID, req.AccountID, req.Quantity, req.TicketNumbers)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"message":        "Purchase successful",
		"lottery_id":     lotteryID,
		"account_id":     req.AccountID,
		"ticket_numbers": numbers,
	})
}

// GetAllocation handles the get allocation request.
// GET /lotteries/{lotteryID}/allocations/{accountID}
func (h *LotteryHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	allocation, err := h.tickets.GetAllocation(r.Context(), lotteryID, accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, allocation)
}

// ListAllocations handles the list allocations request.
// GET /lotteries/{lotteryID}/allocations
func (h *LotteryHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	allocations, err := h.tickets.ListAllocations(r.Context(), lotteryID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"lottery_id": lotteryID,
		"data":       allocations,
	})
}
