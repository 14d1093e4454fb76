package mappers

import (
	"fmt"

	"github.com/dll-community/billing/internal/domain/order"
	vo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
)

type OrderMapper interface {
	ToEntity(model *models.OrderModel) (*order.Order, error)
	ToModel(entity *order.Order) (*models.OrderModel, error)
	ToEntities(models []*models.OrderModel) ([]*order.Order, error)
}

type OrderMapperImpl struct{}

func NewOrderMapper() OrderMapper {
	return &OrderMapperImpl{}
}

func (m *OrderMapperImpl) ToEntity(model *models.OrderModel) (*order.Order, error) {
	if model == nil {
		return nil, nil
	}

	currency, ok := vo.ParseCurrency(model.Currency)
	if !ok {
		return nil, fmt.Errorf("order %d: unsupported currency %q", model.ID, model.Currency)
	}

	items := make([]order.OrderItem, 0, len(model.Items))
	for _, im := range model.Items {
		itemCurrency, ok := vo.ParseCurrency(im.Currency)
		if !ok {
			return nil, fmt.Errorf("order item %d: unsupported currency %q", im.ID, im.Currency)
		}
		items = append(items, order.ReconstructOrderItem(
			im.ID, im.LessonID, im.PlanID,
			vo.NewMoney(im.Amount, itemCurrency),
		))
	}

	entity, err := order.ReconstructOrder(
		model.ID,
		model.Reference,
		model.UserID,
		vo.OrderStatus(model.Status),
		vo.OrderType(model.OrderType),
		vo.NewMoney(model.TotalAmount, currency),
		model.PaymentGateway,
		model.PromoCodeID,
		items,
		model.CreatedAt,
		model.CompletedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct order entity: %w", err)
	}
	return entity, nil
}

func (m *OrderMapperImpl) ToModel(entity *order.Order) (*models.OrderModel, error) {
	if entity == nil {
		return nil, nil
	}

	items := make([]models.OrderItemModel, 0, len(entity.Items()))
	for _, item := range entity.Items() {
		items = append(items, models.OrderItemModel{
			ID:       item.ID(),
			OrderID:  entity.ID(),
			LessonID: item.LessonID(),
			PlanID:   item.PlanID(),
			Amount:   item.Amount().AmountMinor(),
			Currency: item.Amount().Currency().String(),
		})
	}

	return &models.OrderModel{
		ID:             entity.ID(),
		Reference:      entity.Reference(),
		UserID:         entity.UserID(),
		Status:         entity.Status().String(),
		OrderType:      entity.OrderType().String(),
		TotalAmount:    entity.Total().AmountMinor(),
		Currency:       entity.Currency().String(),
		PaymentGateway: entity.PaymentGateway(),
		PromoCodeID:    entity.PromoCodeID(),
		CompletedAt:    entity.CompletedAt(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
		Items:          items,
	}, nil
}

func (m *OrderMapperImpl) ToEntities(orderModels []*models.OrderModel) ([]*order.Order, error) {
	entities := make([]*order.Order, 0, len(orderModels))
	for _, model := range orderModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
