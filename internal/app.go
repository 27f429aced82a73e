// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "golotto/internal/api"
	"golotto/internal/api/handler"
	"golotto/internal/config"
	"golotto/internal/repository"
	"golotto/internal/repository/postgres"
	"golotto/internal/scheduler"
	"golotto/internal/service"
	"golotto/internal/util"
	"golotto/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository    repository.AccountRepository
	LedgerRepository     repository.LedgerRepository
	LotteryRepository    repository.LotteryRepository
	AllocationRepository repository.AllocationRepository
	DrawRepository       repository.DrawRepository

	// Services
	LedgerService    service.LedgerService
	TicketService    service.TicketService
	DrawService      service.DrawService
	LifecycleService service.LifecycleService

	// Background sweep
	Scheduler *scheduler.Scheduler

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.ApplyMigrations(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	app.Logger.Info("Database schema is up to date.")

	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository()
	app.LedgerRepository = postgres.NewLedgerRepository()
	app.LotteryRepository = postgres.NewLotteryRepository()
	app.AllocationRepository = postgres.NewAllocationRepository()
	app.DrawRepository = postgres.NewDrawRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.AccountRepository,
		app.LedgerRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.TicketService = service.NewTicketService(
		app.DB,
		app.DB,
		app.LotteryRepository,
		app.AllocationRepository,
		app.LedgerService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		nil, // wall clock
	)
	app.DrawService = service.NewDrawService(
		app.DB,
		app.DB,
		app.LotteryRepository,
		app.AllocationRepository,
		app.DrawRepository,
		app.LedgerService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		service.CryptoShuffle,
		nil, // wall clock
	)
	app.LifecycleService = service.NewLifecycleService(
		app.DB,
		app.DB,
		app.LotteryRepository,
		app.DrawService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize the lifecycle sweep scheduler
	app.Scheduler, err = scheduler.NewScheduler(app.Config.SweepSchedule, app.LifecycleService, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	// 7. Initialize HTTP Handlers and Router
	accountHandler := handler.NewAccountHandler(app.LedgerService, app.Logger)
	lotteryHandler := handler.NewLotteryHandler(app.LifecycleService, app.TicketService, app.Logger)
	drawHandler := handler.NewDrawHandler(app.DrawService, app.Logger)
	app.HTTPHandler = router.NewRouter(accountHandler, lotteryHandler, drawHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Scheduler != nil {
		if err := app.Scheduler.Stop(ctx); err != nil {
			app.Logger.Error("Failed to stop scheduler", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
