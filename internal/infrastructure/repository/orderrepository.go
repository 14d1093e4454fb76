package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dll-community/billing/internal/domain/order"
	"github.com/dll-community/billing/internal/infrastructure/persistence/mappers"
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
	"github.com/dll-community/billing/internal/shared/db"
	"github.com/dll-community/billing/internal/shared/logger"
)

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.OrderMapper
	logger logger.Interface
}

func NewOrderRepository(db *gorm.DB, logger logger.Interface) order.OrderRepository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mappers.NewOrderMapper(),
		logger: logger,
	}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, entity *order.Order) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map order entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create order", "reference", model.Reference, "error", err)
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set order ID: %w", err)
	}
	itemIDs := make([]uint, len(model.Items))
	for i, item := range model.Items {
		itemIDs[i] = item.ID
	}
	if err := entity.SetItemIDs(itemIDs); err != nil {
		return fmt.Errorf("failed to set order item IDs: %w", err)
	}

	r.logger.Infow("order created", "id", model.ID, "reference", model.Reference, "user_id", model.UserID)
	return nil
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, orderID uint) (*order.Order, error) {
	var model models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items").
		First(&model, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		r.logger.Errorw("failed to get order", "id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByIDForUpdate locks the order row for the rest of the surrounding
// transaction. The completion path relies on this so the webhook and
// return-URL handlers cannot interleave their read-then-write.
func (r *OrderRepositoryImpl) GetByIDForUpdate(ctx context.Context, orderID uint) (*order.Order, error) {
	var model models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&model, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		r.logger.Errorw("failed to get order for update", "id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order for update: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *OrderRepositoryImpl) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	var model models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items").
		Where("reference = ?", reference).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		r.logger.Errorw("failed to get order by reference", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, entity *order.Order) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map order entity: %w", err)
	}

	// items are immutable once created
	result := db.GetTxFromContext(ctx, r.db).
		Omit("Items", "CreatedAt").
		Where("id = ?", model.ID).
		Save(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update order", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	return nil
}

func (r *OrderRepositoryImpl) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var orderModels []*models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error
	if err != nil {
		r.logger.Errorw("failed to list orders", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return r.mapper.ToEntities(orderModels)
}
