package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/dll-community/billing/internal/domain/order"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/domain/subscription"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// CreateSubscriptionOrderUseCase builds a PENDING order for a plan
// purchase. It deliberately does not contact the gateway: retrying
// "get me a payment URL" must not create another order.
type CreateSubscriptionOrderUseCase struct {
	orderRepo order.OrderRepository
	planRepo  subscription.PlanRepository
	logger    logger.Interface
}

func NewCreateSubscriptionOrderUseCase(
	orderRepo order.OrderRepository,
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *CreateSubscriptionOrderUseCase {
	return &CreateSubscriptionOrderUseCase{
		orderRepo: orderRepo,
		planRepo:  planRepo,
		logger:    logger,
	}
}

func (uc *CreateSubscriptionOrderUseCase) Execute(ctx context.Context, userID, planID uint, currency string) (*order.Order, error) {
	cur, ok := ordervo.ParseCurrency(currency)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported currency %q", currency))
	}

	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			return nil, apperrors.NewNotFoundError("subscription plan not found")
		}
		return nil, fmt.Errorf("failed to load plan %d: %w", planID, err)
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError("subscription plan is not available")
	}

	price, err := plan.PriceFor(cur.String())
	if err != nil {
		return nil, apperrors.NewPriceNotFoundError(plan.Key(), cur.String())
	}

	item, err := order.NewPlanItem(plan.ID(), ordervo.NewMoney(price.AmountMinor, cur))
	if err != nil {
		return nil, fmt.Errorf("failed to build order item: %w", err)
	}

	o, err := order.NewOrder(userID, ordervo.TypeSubscriptionPurchase, []order.OrderItem{item})
	if err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}

	if err := uc.orderRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	uc.logger.Infow("subscription order created",
		"order_id", o.ID(),
		"order_reference", o.Reference(),
		"user_id", userID,
		"plan_id", planID,
		"amount", price.AmountMinor,
		"currency", cur.String(),
	)
	return o, nil
}
