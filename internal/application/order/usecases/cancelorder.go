package usecases

import (
	"context"
	"fmt"

	"github.com/dll-community/billing/internal/domain/order"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// CancelOrderUseCase abandons a PENDING order. There are no
// subscription side effects to unwind.
type CancelOrderUseCase struct {
	orderRepo order.OrderRepository
	logger    logger.Interface
}

func NewCancelOrderUseCase(orderRepo order.OrderRepository, logger logger.Interface) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID, userID uint) error {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID() != userID {
		return apperrors.NewNotFoundError("order not found")
	}

	if err := o.Cancel(); err != nil {
		return apperrors.NewConflictError(fmt.Sprintf("order cannot be cancelled from status %s", o.Status()))
	}
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	uc.logger.Infow("order cancelled", "order_id", orderID, "user_id", userID)
	return nil
}
