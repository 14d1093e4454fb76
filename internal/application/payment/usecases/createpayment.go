package usecases

import (
	"context"
	"fmt"

	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/domain/order"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/domain/subscription"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// EmailResolver looks up the customer contact passed to the gateway.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, userID uint) (email, name string, err error)
}

// CreatePaymentUseCase dispatches a PENDING order to a payment gateway
// and returns the redirect/form the browser needs. It is separate from
// order creation so retrying "get me a payment URL" never creates a
// second order.
type CreatePaymentUseCase struct {
	orderRepo       order.OrderRepository
	planRepo        subscription.PlanRepository
	registry        *paymentgateway.Registry
	emailResolver   EmailResolver
	defaultProvider string
	baseURL         string
	logger          logger.Interface
}

func NewCreatePaymentUseCase(
	orderRepo order.OrderRepository,
	planRepo subscription.PlanRepository,
	registry *paymentgateway.Registry,
	emailResolver EmailResolver,
	defaultProvider string,
	baseURL string,
	logger logger.Interface,
) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		orderRepo:       orderRepo,
		planRepo:        planRepo,
		registry:        registry,
		emailResolver:   emailResolver,
		defaultProvider: defaultProvider,
		baseURL:         baseURL,
		logger:          logger,
	}
}

func (uc *CreatePaymentUseCase) Execute(ctx context.Context, orderID, userID uint, provider, language string) (*paymentgateway.CreatePaymentResponse, error) {
	if provider == "" {
		provider = uc.defaultProvider
	}
	gw, err := uc.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID() != userID {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if o.Status() != ordervo.StatusPending && o.Status() != ordervo.StatusProcessing {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order is %s and cannot be paid", o.Status()))
	}

	email, name, err := uc.emailResolver.ResolveEmail(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer email for user %d: %w", userID, err)
	}

	resp, err := gw.CreatePayment(ctx, paymentgateway.CreatePaymentRequest{
		OrderID:       o.ID(),
		Amount:        o.Total().AmountMinor(),
		Currency:      o.Currency().String(),
		CustomerEmail: email,
		CustomerName:  name,
		Description:   uc.describe(ctx, o, language),
		ReturnURL:     fmt.Sprintf("%s/api/v1/payments/return/%s", uc.baseURL, provider),
		CallbackURL:   fmt.Sprintf("%s/api/v1/payments/callback/%s", uc.baseURL, provider),
		Language:      language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s payment for order %d: %w", provider, orderID, err)
	}

	if resp.Success {
		// advisory transition; callbacks are tolerated while still PENDING
		if err := o.MarkProcessing(); err == nil {
			if err := uc.orderRepo.Update(ctx, o); err != nil {
				uc.logger.Warnw("failed to mark order processing", "order_id", orderID, "error", err)
			}
		}
	} else {
		uc.logger.Warnw("gateway rejected payment creation",
			"order_id", orderID,
			"provider", provider,
			"error", resp.ErrorMessage,
		)
	}

	return resp, nil
}

// describe builds the human-readable product line shown on the
// checkout page.
func (uc *CreatePaymentUseCase) describe(ctx context.Context, o *order.Order, language string) string {
	if item := o.PlanItem(); item != nil {
		if plan, err := uc.planRepo.GetByID(ctx, *item.PlanID()); err == nil {
			return plan.TranslationFor(language).Name
		}
	}
	return fmt.Sprintf("Order %s", o.Reference())
}
