package usecases

import (
	"context"
	"errors"
	"fmt"

	orderUsecases "github.com/dll-community/billing/internal/application/order/usecases"
	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/domain/order"
	"github.com/dll-community/billing/internal/shared/logger"
)

// HandleCallbackUseCase reconciles a gateway callback against local
// order state. Both the server-to-server webhook and the browser
// return redirect funnel through here; idempotency of order completion
// makes the race between them harmless.
type HandleCallbackUseCase struct {
	registry        *paymentgateway.Registry
	orderRepo       order.OrderRepository
	completeOrderUC *orderUsecases.CompleteOrderUseCase
	logger          logger.Interface
}

func NewHandleCallbackUseCase(
	registry *paymentgateway.Registry,
	orderRepo order.OrderRepository,
	completeOrderUC *orderUsecases.CompleteOrderUseCase,
	logger logger.Interface,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		registry:        registry,
		orderRepo:       orderRepo,
		completeOrderUC: completeOrderUC,
		logger:          logger,
	}
}

// Execute verifies the callback signature and applies the normalized
// status. An invalid signature returns an error and changes nothing;
// the HTTP layer answers the gateway with a decline.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, provider string, fields map[string]string, signature string) (*paymentgateway.CallbackData, error) {
	gw, err := uc.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	data, err := gw.VerifyCallback(fields, signature)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("payment callback verified",
		"provider", provider,
		"order_id", data.OrderID,
		"order_reference", data.OrderReference,
		"status", data.Status,
		"amount", data.Amount,
		"currency", data.Currency,
	)

	switch data.Status {
	case paymentgateway.StatusSuccess:
		uc.checkAmount(ctx, data)
		if err := uc.completeOrderUC.Execute(ctx, data.OrderID, provider, data.TransactionID); err != nil {
			return nil, fmt.Errorf("failed to complete order %d: %w", data.OrderID, err)
		}

	case paymentgateway.StatusFailed:
		if err := uc.markOrder(ctx, data.OrderID, (*order.Order).MarkFailed); err != nil {
			return nil, err
		}

	case paymentgateway.StatusRefunded:
		if err := uc.markOrder(ctx, data.OrderID, (*order.Order).MarkRefunded); err != nil {
			return nil, err
		}

	case paymentgateway.StatusPending:
		uc.logger.Infow("payment still pending", "order_id", data.OrderID, "provider", provider)
	}

	return data, nil
}

// markOrder applies a failure/refund transition. An order already in a
// terminal state is left alone and the callback is acknowledged, so the
// gateway stops redelivering it.
func (uc *HandleCallbackUseCase) markOrder(ctx context.Context, orderID uint, mark func(*order.Order) error) error {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if err := mark(o); err != nil {
		if errors.Is(err, order.ErrInvalidStatusTransition) {
			uc.logger.Infow("callback ignored for terminal order",
				"order_id", orderID,
				"status", o.Status().String(),
			)
			return nil
		}
		return fmt.Errorf("failed to transition order %d: %w", orderID, err)
	}
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}
	return nil
}

// checkAmount flags callbacks whose amount differs from the order
// total. The signature already authenticates the values, so a mismatch
// points at an order mixup rather than tampering; it is logged, not
// rejected.
func (uc *HandleCallbackUseCase) checkAmount(ctx context.Context, data *paymentgateway.CallbackData) {
	o, err := uc.orderRepo.GetByID(ctx, data.OrderID)
	if err != nil {
		return
	}
	if o.Total().AmountMinor() != data.Amount || o.Currency().String() != data.Currency {
		uc.logger.Warnw("callback amount differs from order total",
			"order_id", data.OrderID,
			"order_amount", o.Total().AmountMinor(),
			"order_currency", o.Currency().String(),
			"callback_amount", data.Amount,
			"callback_currency", data.Currency,
		)
	}
}
