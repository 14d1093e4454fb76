package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/infrastructure/persistence/mappers"
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
	"github.com/dll-community/billing/internal/shared/db"
	"github.com/dll-community/billing/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, entity *subscription.Plan) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "key", model.Key, "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	r.logger.Infow("plan created", "id", model.ID, "key", model.Key)
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Translations").
		Preload("Prices").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		r.logger.Errorw("failed to get plan", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetByKey(ctx context.Context, key string) (*subscription.Plan, error) {
	var model models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Translations").
		Preload("Prices").
		Where("`key` = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		r.logger.Errorw("failed to get plan by key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Translations").
		Preload("Prices").
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&planModels).Error
	if err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return r.mapper.ToEntities(planModels)
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, entity *subscription.Plan) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	// translations and prices are replaced wholesale on update
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("plan_id = ?", model.ID).Delete(&models.PlanTranslationModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear plan translations: %w", err)
	}
	if err := tx.Where("plan_id = ?", model.ID).Delete(&models.PlanPriceModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear plan prices: %w", err)
	}
	if err := tx.Omit("CreatedAt").Save(model).Error; err != nil {
		r.logger.Errorw("failed to update plan", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}
