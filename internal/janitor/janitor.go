// Package janitor runs the retention sweep on a schedule, outside any
// request.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Cleaner removes expired mailboxes and returns how many went
type Cleaner interface {
	PeriodicCleanup(ctx context.Context) (int64, error)
}

// Config schedule of the sweep
type Config struct {
	Delay    time.Duration // before the first run
	Interval time.Duration // between runs
}

// Janitor runs a Cleaner periodically
type Janitor struct {
	cleaner Cleaner
	cfg     Config
	logger  *slog.Logger
}

// New creates a new janitor
func New(cleaner Cleaner, cfg Config, logger *slog.Logger) *Janitor {
	return &Janitor{
		cleaner: cleaner,
		cfg:     cfg,
		logger:  logger.With("component", "janitor"),
	}
}

// Run blocks until ctx is done. Failed sweeps are logged and retried on
// the next tick.
func (j *Janitor) Run(ctx context.Context) error {
	j.logger.Info("starting mailbox cleanup task", "delay", j.cfg.Delay, "interval", j.cfg.Interval)

	timer := time.NewTimer(j.cfg.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		j.logger.Info("cleanup task stopped")
		return nil
	case <-timer.C:
		j.runOnce(ctx)
	}

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cleanup task stopped")
			return nil
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *Janitor) runOnce(ctx context.Context) {
	logger := j.logger.With("run_id", uuid.NewString())
	start := time.Now()

	count, err := j.cleaner.PeriodicCleanup(ctx)
	if err != nil {
		logger.Error("failed to cleanup old mailboxes", "error", err)
		return
	}

	if count > 0 {
		logger.Info("old mailboxes cleaned up", "count", count, "duration", time.Since(start))
	} else {
		logger.Debug("no mailboxes to clean up")
	}
}
