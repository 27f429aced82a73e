// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is the piece of the lifecycle service the scheduler drives.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) ([]int64, error)
}

// Scheduler runs the lifecycle sweep on a cron schedule. SkipIfStillRunning
// guarantees two sweeps never overlap: a tick that fires while the previous
// sweep is still working is dropped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *slog.Logger
}

// NewScheduler creates a Scheduler that fires the sweep on the given cron
// schedule (robfig/cron syntax, descriptors like "@every 1m" included).
func NewScheduler(schedule string, sweeper Sweeper, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		sweeper: sweeper,
		logger:  logger,
	}

	cronLogger := &slogCronLogger{logger: logger}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	if _, err := s.cron.AddFunc(schedule, s.runSweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("Lifecycle sweep scheduler started.")
	s.cron.Start()
}

// Stop halts the cron loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("Lifecycle sweep scheduler stopped.")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) runSweep() {
	now := time.Now().UTC()
	transitioned, err := s.sweeper.Sweep(context.Background(), now)
	if err != nil {
		s.logger.Error("Lifecycle sweep failed", "error", err)
		return
	}
	if len(transitioned) > 0 {
		s.logger.Info("Lifecycle sweep applied transitions", "lottery_ids", transitioned)
	}
}

// slogCronLogger adapts slog to the cron.Logger interface.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l *slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}
