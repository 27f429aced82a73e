// internal/api/handler/draw.go
package handler

import (
	"log/slog"
	"net/http"

	"golotto/internal/service"
)

// DrawHandler handles HTTP requests for draws and their results.
type DrawHandler struct {
	draws  service.DrawService
	logger *slog.Logger
}

// NewDrawHandler creates a new DrawHandler.
func NewDrawHandler(draws service.DrawService, logger *slog.Logger) *DrawHandler {
	return &DrawHandler{
		draws:  draws,
		logger: logger,
	}
}

// Draw handles the manual draw request. Passing ?force=true draws an
// ACTIVE lottery immediately, ending sales first.
// POST /lotteries/{lotteryID}/draw
func (h *DrawHandler) Draw(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	force := r.URL.Query().Get("force") == "true"

	result, err := h.draws.Draw(r.Context(), lotteryID, force)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, result)
}

// GetResult handles the get draw result request.
// GET /lotteries/{lotteryID}/result
func (h *DrawHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	lotteryID, err := lotteryIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	result, err := h.draws.GetResult(r.Context(), lotteryID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, result)
}
