package order_cache

import (
	"context"
	"encoding/json"
	"time"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

const keyOperation = "order"

// Repository serves GetByID from Redis when the cached entry carries the current version.
//
// Validation costs one primary-key lookup, so an entry filled by a reader that
// raced a committing writer is detected and replaced on the next read. Cache
// errors never fail a call; they are logged and the database answers instead.
type Repository struct {
	inner repository
	cache cache
	log   handlerLogger
	ttl   time.Duration
}

func New(log handlerLogger, inner repository, cache cache, ttl time.Duration) *Repository {
	return &Repository{
		inner: inner,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	version, err := r.inner.Version(ctx, id)
	if err != nil {
		return nil, err
	}

	key := r.cache.Key(keyOperation, id)

	if cached, ok := r.lookup(ctx, key); ok && cached.Version == version {
		CacheRequestsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	CacheRequestsTotal.WithLabelValues("miss").Inc()

	order, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, order)
	return order, nil
}

func (r *Repository) Create(ctx context.Context, order entities.Order) error {
	return r.inner.Create(ctx, order)
}

// GetByIDForUpdate always reads the locked row from the database.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Order, error) {
	return r.inner.GetByIDForUpdate(ctx, id)
}

func (r *Repository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	return r.inner.List(ctx, filter)
}

func (r *Repository) Update(ctx context.Context, orderModify entities.OrderModify) (int64, error) {
	version, err := r.inner.Update(ctx, orderModify)
	if err != nil {
		return 0, err
	}

	if orderModify.ID != nil {
		r.evict(ctx, *orderModify.ID)
	}
	return version, nil
}

func (r *Repository) AddTrackingUpdate(ctx context.Context, orderID string, update entities.TrackingUpdate) error {
	if err := r.inner.AddTrackingUpdate(ctx, orderID, update); err != nil {
		return err
	}

	r.evict(ctx, orderID)
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	r.evict(ctx, id)
	return nil
}

func (r *Repository) CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error) {
	return r.inner.CountByStatus(ctx)
}

func (r *Repository) lookup(ctx context.Context, key string) (*entities.Order, bool) {
	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.With(
			logger.NewField("key", key),
			logger.NewField("error", err),
		).Warn("order cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var order entities.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		r.log.With(
			logger.NewField("key", key),
			logger.NewField("error", err),
		).Warn("order cache entry is corrupt")
		return nil, false
	}
	return &order, true
}

func (r *Repository) store(ctx context.Context, key string, order *entities.Order) {
	raw, err := json.Marshal(order)
	if err != nil {
		r.log.With(
			logger.NewField("key", key),
			logger.NewField("error", err),
		).Warn("order cache encode failed")
		return
	}

	if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
		r.log.With(
			logger.NewField("key", key),
			logger.NewField("error", err),
		).Warn("order cache write failed")
	}
}

func (r *Repository) evict(ctx context.Context, id string) {
	key := r.cache.Key(keyOperation, id)
	if err := r.cache.Del(ctx, key); err != nil {
		r.log.With(
			logger.NewField("key", key),
			logger.NewField("error", err),
		).Warn("order cache eviction failed")
	}
}
