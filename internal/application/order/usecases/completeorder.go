package usecases

import (
	"context"
	"fmt"

	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/domain/order"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/db"
	"github.com/dll-community/billing/internal/shared/logger"
)

// CompleteOrderUseCase marks an order paid and applies its subscription
// side effect. Both the webhook handler and the return-URL handler call
// it, possibly concurrently for the same order, so the whole body runs
// in one transaction with the order row locked: the loser of the race
// sees COMPLETED and no-ops.
type CompleteOrderUseCase struct {
	orderRepo        order.OrderRepository
	planRepo         subscription.PlanRepository
	createOrExtendUC *subscriptionUsecases.CreateOrExtendSubscriptionUseCase
	txMgr            db.TxManager
	logger           logger.Interface
}

func NewCompleteOrderUseCase(
	orderRepo order.OrderRepository,
	planRepo subscription.PlanRepository,
	createOrExtendUC *subscriptionUsecases.CreateOrExtendSubscriptionUseCase,
	txMgr db.TxManager,
	logger logger.Interface,
) *CompleteOrderUseCase {
	return &CompleteOrderUseCase{
		orderRepo:        orderRepo,
		planRepo:         planRepo,
		createOrExtendUC: createOrExtendUC,
		txMgr:            txMgr,
		logger:           logger,
	}
}

// Execute completes the order. Calling it for an already-COMPLETED
// order succeeds without side effects.
func (uc *CompleteOrderUseCase) Execute(ctx context.Context, orderID uint, gatewayName, transactionRef string) error {
	return uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.GetByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order %d: %w", orderID, err)
		}

		if o.IsCompleted() {
			uc.logger.Infow("order already completed, skipping",
				"order_id", orderID,
				"gateway", gatewayName,
				"transaction_ref", transactionRef,
			)
			return nil
		}

		if err := o.Complete(gatewayName); err != nil {
			return fmt.Errorf("failed to complete order %d: %w", orderID, err)
		}

		if o.OrderType() == ordervo.TypeSubscriptionPurchase {
			item := o.PlanItem()
			if item == nil {
				return fmt.Errorf("order %d: %w", orderID, order.ErrNoPlanItem)
			}
			plan, err := uc.planRepo.GetByID(txCtx, *item.PlanID())
			if err != nil {
				return fmt.Errorf("failed to load plan %d for order %d: %w", *item.PlanID(), orderID, err)
			}
			oid := orderID
			if _, err := uc.createOrExtendUC.Execute(txCtx, o.UserID(), plan, &oid); err != nil {
				return fmt.Errorf("failed to apply subscription for order %d: %w", orderID, err)
			}
		}

		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return fmt.Errorf("failed to update order %d: %w", orderID, err)
		}

		uc.logger.Infow("order completed",
			"order_id", orderID,
			"order_reference", o.Reference(),
			"gateway", gatewayName,
			"transaction_ref", transactionRef,
			"user_id", o.UserID(),
		)
		return nil
	})
}
