// Package refresh keeps the credential and FX caches warm and prunes result
// caches on a schedule.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/ebay"
	"github.com/guarzo/resaleprice/internal/fx"
	"github.com/guarzo/resaleprice/internal/logging"
)

const defaultTaskTimeout = 30 * time.Second

// Task is one warm-up step.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// FXTask refreshes the exchange-rate snapshot.
func FXTask(c *fx.Cache) Task {
	return Task{Name: "fx", Run: func(ctx context.Context) error {
		_, err := c.Refresh(ctx)
		return err
	}}
}

// TokenTask refreshes the marketplace access token. Missing credentials are
// not treated as a failure.
func TokenTask(c *ebay.TokenCache) Task {
	return Task{Name: "token", Run: func(ctx context.Context) error {
		_, err := c.Refresh(ctx)
		if errors.Is(err, ebay.ErrNotConfigured) {
			return nil
		}
		return err
	}}
}

// Pruner drops expired cache entries.
type Pruner interface {
	Prune() int
}

// PruneTask evicts expired entries from a result cache.
func PruneTask(name string, p Pruner) Task {
	return Task{Name: name, Run: func(ctx context.Context) error {
		p.Prune()
		return nil
	}}
}

// Scheduler runs tasks on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	tasks   []Task
	timeout time.Duration
	logger  *logrus.Entry
}

// NewScheduler validates spec (standard cron or descriptors like
// "@every 45m") and registers tasks.
func NewScheduler(spec string, logger *logrus.Entry, tasks ...Task) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Scheduler{
		cron:    cron.New(),
		tasks:   tasks,
		timeout: defaultTaskTimeout,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start warms every cache once, then starts the schedule.
func (s *Scheduler) Start(ctx context.Context) {
	s.RunOnce(ctx)
	s.cron.Start()
	s.logger.WithField("next", s.Next()).Info("refresh scheduler started")
}

// Stop halts the schedule and waits for a running pass to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Next reports when the next scheduled pass will run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce runs every task and returns how many failed. Failures are logged
// and never stop later tasks.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	failed := 0
	for _, t := range s.tasks {
		tctx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		err := t.Run(tctx)
		cancel()

		log := s.logger.WithFields(logrus.Fields{
			"task":     t.Name,
			"duration": time.Since(start).String(),
		})
		if err != nil {
			failed++
			log.WithError(err).Warn("cache warm-up failed")
			continue
		}
		log.Debug("cache warmed")
	}
	return failed
}
