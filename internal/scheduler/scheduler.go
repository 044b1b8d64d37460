package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadkitchen/dealdesk/internal/syncer"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const opSchedulerNew = "scheduler.new"

var (
	errMissingRunner   = errors.New("sync runner is required")
	errMissingSchedule = errors.New("cron schedule expression is required")
)

// Runner is the sync trigger the scheduler fires on each tick.
type Runner interface {
	Run(ctx context.Context) *syncer.Report
}

// Config bundles the scheduler dependencies.
type Config struct {
	Schedule string
	Runner   Runner
	Logger   *zap.Logger
}

// Scheduler fires the sync runner on a cron schedule. Overlapping
// ticks are admitted here and refused downstream by the sync guard.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New parses the schedule and registers the sync job without starting
// it.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("%s: %w", opSchedulerNew, errMissingRunner)
	}
	if cfg.Schedule == "" {
		return nil, fmt.Errorf("%s: %w", opSchedulerNew, errMissingSchedule)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runner := cron.New()
	_, err := runner.AddFunc(cfg.Schedule, func() {
		report := cfg.Runner.Run(context.Background())
		if report.Skipped {
			logger.Info("scheduled sync skipped by cooldown",
				zap.String("run_id", report.RunID))
			return
		}
		logger.Info("scheduled sync finished",
			zap.String("run_id", report.RunID),
			zap.Int("records", report.Total()),
			zap.Int("errors", len(report.Errors)))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSchedulerNew, err)
	}

	logger.Info("sync schedule registered", zap.String("schedule", cfg.Schedule))
	return &Scheduler{cron: runner, logger: logger}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
