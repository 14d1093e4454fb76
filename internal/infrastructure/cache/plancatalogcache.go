package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/infrastructure/persistence/mappers"
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
	"github.com/dll-community/billing/internal/shared/logger"
)

const (
	planCatalogKey = "billing:plans:active"
	planKeyPrefix  = "billing:plan:"
	basePlanTTL    = 10 * time.Minute
	planTTLJitter  = 5 * time.Minute // TTL range: 10-15 min (anti-stampede)
)

// CachedPlanRepository decorates a PlanRepository with a Redis
// read-through cache. The catalog is read on every checkout page and
// changes rarely; writes invalidate.
type CachedPlanRepository struct {
	inner  subscription.PlanRepository
	client *redis.Client
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewCachedPlanRepository(inner subscription.PlanRepository, client *redis.Client, logger logger.Interface) *CachedPlanRepository {
	return &CachedPlanRepository{
		inner:  inner,
		client: client,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (c *CachedPlanRepository) ttl() time.Duration {
	return basePlanTTL + time.Duration(rand.Int64N(int64(planTTLJitter)))
}

func (c *CachedPlanRepository) planKey(id uint) string {
	return fmt.Sprintf("%s%d", planKeyPrefix, id)
}

func (c *CachedPlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	if err := c.inner.Create(ctx, plan); err != nil {
		return err
	}
	c.invalidate(ctx, plan.ID())
	return nil
}

func (c *CachedPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	if data, err := c.client.Get(ctx, c.planKey(id)).Bytes(); err == nil {
		if plan, err := c.decode(data); err == nil {
			return plan, nil
		}
	} else if err != redis.Nil {
		c.logger.Warnw("plan cache read failed, falling through", "plan_id", id, "error", err)
	}

	plan, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, c.planKey(id), plan)
	return plan, nil
}

func (c *CachedPlanRepository) GetByKey(ctx context.Context, key string) (*subscription.Plan, error) {
	// key lookups are rare (seeding, admin); skip the cache
	return c.inner.GetByKey(ctx, key)
}

func (c *CachedPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	if data, err := c.client.Get(ctx, planCatalogKey).Bytes(); err == nil {
		var planModels []*models.PlanModel
		if err := json.Unmarshal(data, &planModels); err == nil {
			if plans, err := c.mapper.ToEntities(planModels); err == nil {
				return plans, nil
			}
		}
	} else if err != redis.Nil {
		c.logger.Warnw("plan catalog cache read failed, falling through", "error", err)
	}

	plans, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	planModels := make([]*models.PlanModel, 0, len(plans))
	for _, plan := range plans {
		model, err := c.mapper.ToModel(plan)
		if err != nil {
			return plans, nil
		}
		planModels = append(planModels, model)
	}
	if data, err := json.Marshal(planModels); err == nil {
		if err := c.client.Set(ctx, planCatalogKey, data, c.ttl()).Err(); err != nil {
			c.logger.Warnw("failed to cache plan catalog", "error", err)
		}
	}
	return plans, nil
}

func (c *CachedPlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	if err := c.inner.Update(ctx, plan); err != nil {
		return err
	}
	c.invalidate(ctx, plan.ID())
	return nil
}

func (c *CachedPlanRepository) store(ctx context.Context, key string, plan *subscription.Plan) {
	model, err := c.mapper.ToModel(plan)
	if err != nil {
		return
	}
	data, err := json.Marshal(model)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl()).Err(); err != nil {
		c.logger.Warnw("failed to cache plan", "key", key, "error", err)
	}
}

func (c *CachedPlanRepository) decode(data []byte) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}
	return c.mapper.ToEntity(&model)
}

func (c *CachedPlanRepository) invalidate(ctx context.Context, planID uint) {
	if err := c.client.Del(ctx, planCatalogKey, c.planKey(planID)).Err(); err != nil {
		c.logger.Warnw("failed to invalidate plan cache", "plan_id", planID, "error", err)
	}
}
