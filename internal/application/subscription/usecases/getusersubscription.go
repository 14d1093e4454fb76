package usecases

import (
	"context"
	"time"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
)

// SubscriptionDTO is the API projection of a subscription row.
type SubscriptionDTO struct {
	ID              uint       `json:"id"`
	PlanID          uint       `json:"plan_id"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	AutoRenew       bool       `json:"auto_renew"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func toSubscriptionDTO(sub *subscription.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:              sub.ID(),
		PlanID:          sub.PlanID(),
		Status:          sub.Status().String(),
		StartDate:       sub.StartDate(),
		EndDate:         sub.EndDate(),
		AutoRenew:       sub.AutoRenew(),
		NextBillingDate: sub.NextBillingDate(),
		CancelledAt:     sub.CancelledAt(),
	}
}

// GetUserSubscriptionUseCase returns the user's current active
// subscription.
type GetUserSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetUserSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *GetUserSubscriptionUseCase {
	return &GetUserSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetUserSubscriptionUseCase) Execute(ctx context.Context, userID uint) (*SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, userID, biztime.NowUTC())
	if err != nil {
		return nil, err
	}
	dto := toSubscriptionDTO(sub)
	return &dto, nil
}

// ListUserSubscriptionsUseCase returns the user's full subscription
// history, newest first.
type ListUserSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewListUserSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ListUserSubscriptionsUseCase {
	return &ListUserSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListUserSubscriptionsUseCase) Execute(ctx context.Context, userID uint) ([]SubscriptionDTO, error) {
	subs, err := uc.subscriptionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, toSubscriptionDTO(sub))
	}
	return dtos, nil
}
