package usecases

import (
	"context"
	"fmt"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// CancelAutoRenewUseCase turns off renewal for a subscription the user
// owns. Paid time is kept; the expiration pass reclaims access once the
// end date lapses.
type CancelAutoRenewUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewCancelAutoRenewUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CancelAutoRenewUseCase {
	return &CancelAutoRenewUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CancelAutoRenewUseCase) Execute(ctx context.Context, subscriptionID, userID uint) error {
	sub, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID() != userID {
		return apperrors.NewNotFoundError("subscription not found")
	}

	if err := sub.CancelAutoRenew(biztime.NowUTC()); err != nil {
		return fmt.Errorf("failed to cancel auto-renew for subscription %d: %w", subscriptionID, err)
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription %d: %w", subscriptionID, err)
	}

	uc.logger.Infow("auto-renew cancelled",
		"subscription_id", subscriptionID,
		"user_id", userID,
		"end_date", sub.EndDate(),
	)
	return nil
}
