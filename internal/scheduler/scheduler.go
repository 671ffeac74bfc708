// Package scheduler runs the periodic valuation snapshot.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Snapshotter writes valuation rows for a date.
type Snapshotter interface {
	TakeSnapshot(ctx context.Context, on time.Time) (int, error)
}

// Scheduler wraps a cron instance that triggers snapshots.
type Scheduler struct {
	cron    *cron.Cron
	target  Snapshotter
	timeout time.Duration
	logger  *log.Logger
}

// New registers the snapshot job on schedule, a standard five-field cron
// expression or a descriptor such as "@daily". Each run gets timeout to finish.
func New(schedule string, target Snapshotter, timeout time.Duration, logger *log.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		timeout: timeout,
		logger:  logger.WithPrefix("scheduler"),
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("snapshot job scheduled", "next", s.Next())
}

// Stop prevents new runs and waits for a running one to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("snapshot job still running at shutdown")
	}
}

// Next returns the time of the next scheduled run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.target.TakeSnapshot(ctx, time.Now())
	if err != nil {
		s.logger.Error("snapshot failed", "err", err)
		return
	}
	s.logger.Debug("snapshot job finished", "portfolios", n)
}
