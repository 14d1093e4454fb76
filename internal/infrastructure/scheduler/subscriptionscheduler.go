package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/shared/logger"
)

// SubscriptionScheduler handles periodic subscription maintenance tasks:
// marking lapsed subscriptions expired and sending expiry reminders.
type SubscriptionScheduler struct {
	expireSubscriptionsUC *subscriptionUsecases.ExpireSubscriptionsUseCase
	remindExpiringUC      *subscriptionUsecases.RemindExpiringSubscriptionsUseCase
	logger                logger.Interface
	stopChan              chan struct{}
	stopOnce              sync.Once
	wg                    sync.WaitGroup
	interval              time.Duration
}

// NewSubscriptionScheduler creates a new SubscriptionScheduler
func NewSubscriptionScheduler(
	expireSubscriptionsUC *subscriptionUsecases.ExpireSubscriptionsUseCase,
	remindExpiringUC *subscriptionUsecases.RemindExpiringSubscriptionsUseCase,
	intervalHours int,
	logger logger.Interface,
) *SubscriptionScheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &SubscriptionScheduler{
		expireSubscriptionsUC: expireSubscriptionsUC,
		remindExpiringUC:      remindExpiringUC,
		logger:                logger,
		stopChan:              make(chan struct{}),
		interval:              time.Duration(intervalHours) * time.Hour,
	}
}

// Start starts the scheduler
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog from downtime
	s.runMaintenance(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runMaintenance(ctx)
		}
	}
}

func (s *SubscriptionScheduler) runMaintenance(ctx context.Context) {
	s.processExpiredSubscriptions(ctx)
	s.sendExpiryReminders(ctx)
}

func (s *SubscriptionScheduler) processExpiredSubscriptions(ctx context.Context) {
	startTime := time.Now()

	expiredCount, err := s.expireSubscriptionsUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to process expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		s.logger.Infow("expired subscriptions processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}

func (s *SubscriptionScheduler) sendExpiryReminders(ctx context.Context) {
	startTime := time.Now()

	sentCount, err := s.remindExpiringUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to send expiry reminders",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if sentCount > 0 {
		s.logger.Infow("expiry reminders sent",
			"count", sentCount,
			"duration", time.Since(startTime),
		)
	}
}
