// Package scheduler runs campaigns on a cron schedule for unattended
// operation. One campaign runs at a time; a tick that fires while a campaign
// is still running is skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// CampaignRunner executes one full campaign.
type CampaignRunner interface {
	Run(ctx context.Context) error
}

// Scheduler triggers campaign runs from a cron expression.
type Scheduler struct {
	runner CampaignRunner
	logger *slog.Logger

	cron    *cron.Cron
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler around the given runner.
func New(runner CampaignRunner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		logger: logger.With(slog.String("component", "scheduler")),
		cron:   cron.New(),
	}
}

// Start registers the cron expression and begins scheduling. It returns
// immediately; campaigns run on the cron goroutine.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		s.cancel()
		return fmt.Errorf("parsing cron expression %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("cron", spec))
	return nil
}

// tick runs one campaign unless a previous run is still in flight.
func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous campaign still running, skipping this tick")
		return
	}
	defer s.running.Store(false)

	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.runner.Run(s.ctx); err != nil {
		s.logger.Error("scheduled campaign failed", slog.String("error", err.Error()))
	}
}

// Stop halts scheduling and waits for an in-flight campaign to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}
