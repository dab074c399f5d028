package postgres

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
	"coaching-subscription/internal/infra/metrics"
)

const (
	planCacheKeyPrefix = "plan:"
	planCacheAllKey    = "plans:all"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator keeps the read-mostly plan catalog in process memory.
// Cached values are copied on the way out so callers cannot mutate the cache.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache *gocache.Cache
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, ttl time.Duration) repository.PlanRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &planRepoCacheDecorator{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Save writes through and drops every cached entry that may be stale.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if err := d.inner.Save(ctx, tx, plan); err != nil {
		return err
	}
	d.cache.Delete(planCacheKeyPrefix + plan.ID)
	d.cache.Delete(planCacheAllKey)
	return nil
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	key := planCacheKeyPrefix + id
	if v, ok := d.cache.Get(key); ok {
		metrics.IncCacheRequest("plan", "hit")
		return clonePlan(v.(*model.Plan)), nil
	}
	metrics.IncCacheRequest("plan", "miss")

	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(key, clonePlan(plan))
	return plan, nil
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	if v, ok := d.cache.Get(planCacheAllKey); ok {
		metrics.IncCacheRequest("plans_all", "hit")
		return clonePlans(v.([]*model.Plan)), nil
	}
	metrics.IncCacheRequest("plans_all", "miss")

	plans, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	d.cache.SetDefault(planCacheAllKey, clonePlans(plans))
	return plans, nil
}

func clonePlan(p *model.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Features = append([]string(nil), p.Features...)
	return &c
}

func clonePlans(in []*model.Plan) []*model.Plan {
	out := make([]*model.Plan, 0, len(in))
	for _, p := range in {
		out = append(out, clonePlan(p))
	}
	return out
}
