package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
)

// CreateOrExtendSubscriptionUseCase applies a paid plan purchase to the
// user's subscription. It runs inside the order-completion transaction,
// so its repository writes share the order's unit of work.
type CreateOrExtendSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewCreateOrExtendSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CreateOrExtendSubscriptionUseCase {
	return &CreateOrExtendSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute extends the user's single active subscription, or creates one
// when none exists. Extending stacks the plan duration on the current
// end date while it is still in the future; a lapsed subscription
// restarts from now. The row always ends up on the purchased plan.
func (uc *CreateOrExtendSubscriptionUseCase) Execute(
	ctx context.Context,
	userID uint,
	plan *subscription.Plan,
	orderID *uint,
) (*subscription.Subscription, error) {
	now := biztime.NowUTC()

	existing, err := uc.subscriptionRepo.GetActiveByUserID(ctx, userID, now)
	switch {
	case err == nil:
		if err := existing.ExtendWithPlan(plan, orderID, now); err != nil {
			return nil, fmt.Errorf("failed to extend subscription %d: %w", existing.ID(), err)
		}
		if err := uc.subscriptionRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update subscription %d: %w", existing.ID(), err)
		}
		uc.logger.Infow("subscription extended",
			"subscription_id", existing.ID(),
			"user_id", userID,
			"plan_id", plan.ID(),
			"end_date", existing.EndDate(),
		)
		return existing, nil

	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		sub, err := subscription.NewSubscription(userID, plan, orderID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to persist subscription: %w", err)
		}
		uc.logger.Infow("subscription created",
			"subscription_id", sub.ID(),
			"user_id", userID,
			"plan_id", plan.ID(),
			"end_date", sub.EndDate(),
		)
		return sub, nil

	default:
		return nil, fmt.Errorf("failed to load active subscription for user %d: %w", userID, err)
	}
}
