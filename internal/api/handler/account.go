// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"golotto/internal/api/types"
	"golotto/internal/domain"
	"golotto/internal/service"
	"golotto/internal/util"
)

// AccountHandler handles HTTP requests for accounts and their wallets.
type AccountHandler struct {
	ledger service.LedgerService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger service.LedgerService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
		logger: logger,
	}
}

func accountIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// OpenAccountRequest represents the request body for opening an account.
type OpenAccountRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// OpenAccount handles the open account request.
// POST /accounts
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Role == "" {
		req.Role = string(domain.RoleUser)
	}

	account, err := h.ledger.OpenAccount(r.Context(), req.Username, domain.Role(req.Role))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, account)
}

// AmountRequest represents the request body for deposit and withdraw. The
// amount is a decimal string such as "10.50".
type AmountRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Deposit handles the deposit request.
// POST /accounts/{accountID}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	if req.Description == "" {
		req.Description = "deposit"
	}

	balance, err := h.ledger.Credit(r.Context(), accountID, amount, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":     "Deposit successful",
		"account_id":  accountID,
		"new_balance": domain.FormatAmount(balance),
	})
}

// Withdraw handles the withdraw request.
// POST /accounts/{accountID}/withdraw
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	if req.Description == "" {
		req.Description = "withdrawal"
	}

	balance, err := h.ledger.Debit(r.Context(), accountID, amount, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":     "Withdrawal successful",
		"account_id":  accountID,
		"new_balance": domain.FormatAmount(balance),
	})
}

// GetBalance handles the get balance request.
// GET /accounts/{accountID}/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"account_id": account.ID,
		"balance":    domain.FormatAmount(account.Balance),
		"disabled":   account.Disabled,
	})
}

// GetStatement handles the get statement request.
// GET /accounts/{accountID}/statement
func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, total, err := h.ledger.GetStatement(r.Context(), accountID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.LedgerEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// DisableAccount handles the disable account request.
// POST /accounts/{accountID}/disable
func (h *AccountHandler) DisableAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.ledger.DisableAccount(r.Context(), accountID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":    "Account disabled",
		"account_id": accountID,
	})
}
