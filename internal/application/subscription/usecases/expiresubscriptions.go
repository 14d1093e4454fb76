package usecases

import (
	"context"
	"fmt"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
)

// ExpireSubscriptionsUseCase is the periodic expiration pass. It flips
// lapsed ACTIVE rows to EXPIRED under two disjoint rules:
//
//   - autoRenew off and the billing date has passed: expire immediately
//   - autoRenew on and the billing date is more than gracePeriodDays
//     behind: the out-of-band billing retry window has closed
//
// Cancelled-then-still-active rows are excluded by the repository
// query; already-EXPIRED rows are never reselected.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	gracePeriodDays  int
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	gracePeriodDays int,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		gracePeriodDays:  gracePeriodDays,
		logger:           logger,
	}
}

// Execute returns the number of subscriptions marked as expired.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	expired, err := uc.subscriptionRepo.FindExpired(ctx, now, uc.gracePeriodDays)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired subscriptions to process", "count", len(expired))

	marked := 0
	for _, sub := range expired {
		if err := sub.MarkAsExpired(now); err != nil {
			uc.logger.Warnw("failed to mark subscription as expired",
				"subscription_id", sub.ID(),
				"current_status", sub.Status().String(),
				"error", err,
			)
			continue
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to update expired subscription",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}
		marked++
		uc.logger.Debugw("subscription marked as expired",
			"subscription_id", sub.ID(),
			"user_id", sub.UserID(),
		)
	}

	return marked, nil
}
