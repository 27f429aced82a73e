// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"golotto/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	accountHandler *handler.AccountHandler,
	lotteryHandler *handler.LotteryHandler,
	drawHandler *handler.DrawHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Account and wallet routes
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", accountHandler.OpenAccount)
		r.Post("/{accountID}/deposit", accountHandler.Deposit)
		r.Post("/{accountID}/withdraw", accountHandler.Withdraw)
		r.Get("/{accountID}/balance", accountHandler.GetBalance)
		r.Get("/{accountID}/statement", accountHandler.GetStatement)
		r.Post("/{accountID}/disable", accountHandler.DisableAccount)
	})

	// Lottery routes
	r.Route("/lotteries", func(r chi.Router) {
		r.Post("/", lotteryHandler.CreateLottery)
		r.Get("/", lotteryHandler.ListLotteries)
		r.Get("/{lotteryID}", lotteryHandler.GetLottery)
		r.Post("/{lotteryID}/publish", lotteryHandler.PublishLottery)
		r.Post("/{lotteryID}/tickets", lotteryHandler.Purchase)
		r.Get("/{lotteryID}/allocations", lotteryHandler.ListAllocations)
		r.Get("/{lotteryID}/allocations/{accountID}", lotteryHandler.GetAllocation)
		r.Post("/{lotteryID}/draw", drawHandler.Draw)
		r.Get("/{lotteryID}/result", drawHandler.GetResult)
	})

	return r
}
