package mappers

import (
	"fmt"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*subscription.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	translations := make([]subscription.PlanTranslation, 0, len(model.Translations))
	for _, tr := range model.Translations {
		translations = append(translations, subscription.PlanTranslation{
			Language:    tr.Language,
			Name:        tr.Name,
			Description: tr.Description,
		})
	}

	prices := make([]subscription.PlanPrice, 0, len(model.Prices))
	for _, p := range model.Prices {
		prices = append(prices, subscription.PlanPrice{
			Currency:    p.Currency,
			AmountMinor: p.AmountMinor,
		})
	}

	entity, err := subscription.ReconstructPlan(
		model.ID,
		model.Key,
		model.DurationInDays,
		model.IsActive,
		model.SortOrder,
		translations,
		prices,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}
	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	translations := make([]models.PlanTranslationModel, 0, len(entity.Translations()))
	for _, tr := range entity.Translations() {
		translations = append(translations, models.PlanTranslationModel{
			PlanID:      entity.ID(),
			Language:    tr.Language,
			Name:        tr.Name,
			Description: tr.Description,
		})
	}

	prices := make([]models.PlanPriceModel, 0, len(entity.Prices()))
	for _, p := range entity.Prices() {
		prices = append(prices, models.PlanPriceModel{
			PlanID:      entity.ID(),
			Currency:    p.Currency,
			AmountMinor: p.AmountMinor,
		})
	}

	return &models.PlanModel{
		ID:             entity.ID(),
		Key:            entity.Key(),
		DurationInDays: entity.DurationInDays(),
		IsActive:       entity.IsActive(),
		SortOrder:      entity.SortOrder(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
		Translations:   translations,
		Prices:         prices,
	}, nil
}

func (m *PlanMapperImpl) ToEntities(planModels []*models.PlanModel) ([]*subscription.Plan, error) {
	entities := make([]*subscription.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
