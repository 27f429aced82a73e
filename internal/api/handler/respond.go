// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golotto/internal/util"
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 30 * time.Second

// respondWithJSON sends a JSON response with the given status code.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors onto HTTP status codes.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var unavailable *util.TicketUnavailableError

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrQuantityMismatch):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrAccountNotFound),
		util.IsError(err, util.ErrLotteryNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrNotEligibleForWallet), util.IsError(err, util.ErrAccountDisabled):
		statusCode = http.StatusForbidden
		message = err.Error()
	case errors.As(err, &unavailable):
		// Report the exact numbers that were taken so the client can retry.
		respondWithJSON(logger, w, http.StatusConflict, map[string]interface{}{
			"error":               "Requested ticket numbers are unavailable",
			"unavailable_numbers": unavailable.Numbers,
		})
		return
	case util.IsError(err, util.ErrTicketUnavailable),
		util.IsError(err, util.ErrPerUserLimitExceeded),
		util.IsError(err, util.ErrLotteryNotActive),
		util.IsError(err, util.ErrAlreadyDrawn),
		util.IsError(err, util.ErrDrawNotReady),
		util.IsError(err, util.ErrNoTicketsSold),
		util.IsError(err, util.ErrDuplicateEntry),
		util.IsError(err, util.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}
