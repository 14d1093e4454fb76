package migration

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
)

type planSeed struct {
	Key            string `yaml:"key"`
	DurationInDays int    `yaml:"duration_in_days"`
	SortOrder      int    `yaml:"sort_order"`
	Active         *bool  `yaml:"active"`
	Translations   []struct {
		Language    string `yaml:"language"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"translations"`
	Prices []struct {
		Currency    string `yaml:"currency"`
		AmountMinor int64  `yaml:"amount_minor"`
	} `yaml:"prices"`
}

type seedFile struct {
	Plans []planSeed `yaml:"plans"`
}

// PlanSeeder loads the plan catalog from a YAML file. Existing plans are
// matched by key and updated in place, so reseeding is idempotent.
type PlanSeeder struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewPlanSeeder(planRepo subscription.PlanRepository, logger logger.Interface) *PlanSeeder {
	return &PlanSeeder{
		planRepo: planRepo,
		logger:   logger.Named("seeder"),
	}
}

func (s *PlanSeeder) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, seed := range file.Plans {
		if err := s.seedPlan(ctx, seed); err != nil {
			return fmt.Errorf("failed to seed plan %q: %w", seed.Key, err)
		}
	}

	s.logger.Infow("plan catalog seeded", "plans", len(file.Plans))
	return nil
}

func (s *PlanSeeder) seedPlan(ctx context.Context, seed planSeed) error {
	translations := make([]subscription.PlanTranslation, 0, len(seed.Translations))
	for _, t := range seed.Translations {
		translations = append(translations, subscription.PlanTranslation{
			Language:    t.Language,
			Name:        t.Name,
			Description: t.Description,
		})
	}
	prices := make([]subscription.PlanPrice, 0, len(seed.Prices))
	for _, p := range seed.Prices {
		prices = append(prices, subscription.PlanPrice{
			Currency:    p.Currency,
			AmountMinor: p.AmountMinor,
		})
	}

	active := true
	if seed.Active != nil {
		active = *seed.Active
	}

	existing, err := s.planRepo.GetByKey(ctx, seed.Key)
	switch {
	case err == nil:
		updated, err := subscription.ReconstructPlan(
			existing.ID(),
			seed.Key,
			seed.DurationInDays,
			active,
			seed.SortOrder,
			translations,
			prices,
			existing.CreatedAt(),
			biztime.NowUTC(),
		)
		if err != nil {
			return err
		}
		if err := s.planRepo.Update(ctx, updated); err != nil {
			return err
		}
		s.logger.Infow("plan updated", "key", seed.Key)
		return nil
	case errors.Is(err, subscription.ErrPlanNotFound):
		plan, err := subscription.NewPlan(seed.Key, seed.DurationInDays, seed.SortOrder, translations, prices)
		if err != nil {
			return err
		}
		if !active {
			plan.Deactivate()
		}
		if err := s.planRepo.Create(ctx, plan); err != nil {
			return err
		}
		s.logger.Infow("plan created", "key", seed.Key)
		return nil
	default:
		return err
	}
}
