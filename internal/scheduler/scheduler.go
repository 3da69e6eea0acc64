// Package scheduler fires the periodic sweep entry points. Every service
// instance runs its own timers; cross-instance deduplication is the run
// lock's job, not the scheduler's.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one periodic sweep entry point.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with interval-based registration.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// New creates a new scheduler. timeout bounds a single job invocation.
func New(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
	}
}

// Every registers a named job to run at the given interval.
func (s *Scheduler) Every(interval time.Duration, name string, job Job) error {
	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.logger.Debug("Periodic job firing", zap.String("job", name))
		if err := job(ctx); err != nil {
			// A failed sweep just waits for its next period.
			s.logger.Error("Periodic job failed",
				zap.String("job", name),
				zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.logger.Info("Periodic job scheduled",
		zap.String("job", name),
		zap.Duration("interval", interval))
	return nil
}

// Start begins firing registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the timers and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
