package usecases

import (
	"context"
	"fmt"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/services/markdown"
)

// PlanDTO is the catalog projection of a plan in one language.
// DescriptionHTML is sanitized Markdown output.
type PlanDTO struct {
	ID              uint           `json:"id"`
	Key             string         `json:"key"`
	DurationInDays  int            `json:"duration_in_days"`
	Name            string         `json:"name"`
	DescriptionHTML string         `json:"description_html"`
	SortOrder       int            `json:"sort_order"`
	Prices          []PlanPriceDTO `json:"prices"`
}

type PlanPriceDTO struct {
	Currency    string `json:"currency"`
	AmountMinor int64  `json:"amount_minor"`
}

// ListPlansUseCase returns the active plan catalog localized to the
// requested language.
type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	markdown markdown.Service
	logger   logger.Interface
}

func NewListPlansUseCase(
	planRepo subscription.PlanRepository,
	markdownSvc markdown.Service,
	logger logger.Interface,
) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		markdown: markdownSvc,
		logger:   logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, lang string) ([]PlanDTO, error) {
	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	dtos := make([]PlanDTO, 0, len(plans))
	for _, plan := range plans {
		tr := plan.TranslationFor(lang)

		descriptionHTML, err := uc.markdown.ToHTMLSanitized(tr.Description)
		if err != nil {
			uc.logger.Warnw("failed to render plan description",
				"plan_id", plan.ID(),
				"error", err,
			)
			descriptionHTML = ""
		}

		prices := make([]PlanPriceDTO, 0, len(plan.Prices()))
		for _, p := range plan.Prices() {
			prices = append(prices, PlanPriceDTO{
				Currency:    p.Currency,
				AmountMinor: p.AmountMinor,
			})
		}

		dtos = append(dtos, PlanDTO{
			ID:              plan.ID(),
			Key:             plan.Key(),
			DurationInDays:  plan.DurationInDays(),
			Name:            tr.Name,
			DescriptionHTML: descriptionHTML,
			SortOrder:       plan.SortOrder(),
			Prices:          prices,
		})
	}

	return dtos, nil
}
