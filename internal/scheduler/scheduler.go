package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a retraining job on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	schedule string
	job      func(ctx context.Context) error
	logger   *zap.Logger
}

// New creates a scheduler. An empty schedule disables it.
func New(schedule string, job func(ctx context.Context) error, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      ctx,
		cancel:   cancel,
		schedule: schedule,
		job:      job,
		logger:   logger,
	}
}

// Start registers the job and starts the cron runner
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Debug("Retraining schedule not set, scheduler disabled")
		return nil
	}
	if s.job == nil {
		return fmt.Errorf("no job set for schedule %q", s.schedule)
	}

	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("invalid training schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) run() {
	start := time.Now()
	s.logger.Info("Scheduled retraining triggered")
	if err := s.job(s.ctx); err != nil {
		s.logger.Error("Scheduled retraining failed", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled retraining complete", zap.Duration("duration", time.Since(start)))
}

// Stop cancels the context of a running job and waits for it to return
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether a job is registered
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
