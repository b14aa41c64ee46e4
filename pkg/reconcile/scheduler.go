package reconcile

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs a task on a fixed interval for unattended update passes.
// Singleton mode ensures a slow pass is never overlapped by the next tick.
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// NewScheduler registers task to run every interval. Call Start to begin.
func NewScheduler(interval time.Duration, task func(), logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("reconcile: create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("theme-auto-update"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("reconcile: schedule update job: %w", err)
	}

	return &Scheduler{sched: sched, logger: logger}, nil
}

// Start begins running scheduled passes in the background.
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Debug("auto-update scheduler started")
}

// Stop shuts the scheduler down, waiting for a running pass to finish.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
