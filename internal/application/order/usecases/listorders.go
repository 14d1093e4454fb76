package usecases

import (
	"context"
	"time"

	"github.com/dll-community/billing/internal/domain/order"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID             uint           `json:"id"`
	Reference      string         `json:"reference"`
	Status         string         `json:"status"`
	Type           string         `json:"type"`
	TotalAmount    int64          `json:"total_amount"`
	Currency       string         `json:"currency"`
	PaymentGateway *string        `json:"payment_gateway,omitempty"`
	Items          []OrderItemDTO `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

type OrderItemDTO struct {
	LessonID *uint `json:"lesson_id,omitempty"`
	PlanID   *uint `json:"plan_id,omitempty"`
	Amount   int64 `json:"amount"`
}

func ToOrderDTO(o *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			LessonID: item.LessonID(),
			PlanID:   item.PlanID(),
			Amount:   item.Amount().AmountMinor(),
		})
	}
	return OrderDTO{
		ID:             o.ID(),
		Reference:      o.Reference(),
		Status:         o.Status().String(),
		Type:           o.OrderType().String(),
		TotalAmount:    o.Total().AmountMinor(),
		Currency:       o.Currency().String(),
		PaymentGateway: o.PaymentGateway(),
		Items:          items,
		CreatedAt:      o.CreatedAt(),
		CompletedAt:    o.CompletedAt(),
	}
}

// ListUserOrdersUseCase returns a user's order history, newest first.
type ListUserOrdersUseCase struct {
	orderRepo order.OrderRepository
	logger    logger.Interface
}

func NewListUserOrdersUseCase(orderRepo order.OrderRepository, logger logger.Interface) *ListUserOrdersUseCase {
	return &ListUserOrdersUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *ListUserOrdersUseCase) Execute(ctx context.Context, userID uint) ([]OrderDTO, error) {
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToOrderDTO(o))
	}
	return dtos, nil
}

// GetOrderUseCase loads a single order owned by the user.
type GetOrderUseCase struct {
	orderRepo order.OrderRepository
	logger    logger.Interface
}

func NewGetOrderUseCase(orderRepo order.OrderRepository, logger logger.Interface) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, userID uint) (*OrderDTO, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID() != userID {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	dto := ToOrderDTO(o)
	return &dto, nil
}
