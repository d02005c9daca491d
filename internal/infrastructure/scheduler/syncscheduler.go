// Package scheduler drives the periodic reconciliation passes.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// SyncScheduler runs a reconciliation pass on a fixed interval. The first
// pass starts immediately; ticks that land while a pass still holds the
// engine's gate are skipped, never queued.
type SyncScheduler struct {
	engine   *appsync.Engine
	logger   logger.Interface
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSyncScheduler(engine *appsync.Engine, interval time.Duration, logger logger.Interface) *SyncScheduler {
	return &SyncScheduler{
		engine:   engine,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the schedule loop and returns immediately.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting sync scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler and waits for an in-flight pass to finish. Safe
// to call more than once.
func (s *SyncScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping sync scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("sync scheduler stopped")
	})
}

func (s *SyncScheduler) runLoop(ctx context.Context) {
	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("sync scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *SyncScheduler) runPass(ctx context.Context) {
	if _, err := s.engine.TryRun(ctx); err != nil {
		if errors.Is(err, appsync.ErrPassInProgress) {
			s.logger.Warnw("previous pass still running, skipping tick")
			return
		}
		s.logger.Errorw("scheduled pass failed", "error", err)
	}
}
