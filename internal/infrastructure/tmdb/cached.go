package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/infrastructure/cache"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// CachedClient serves repeated catalog lookups from a cache.Store.
// Cache failures are logged and fall through to the wrapped client.
type CachedClient struct {
	next    catalog.Client
	store   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *telemetry.CatalogMetrics
}

var _ catalog.Client = (*CachedClient)(nil)

// NewCachedClient wraps next. A non-positive ttl returns next unchanged.
func NewCachedClient(next catalog.Client, store cache.Store, ttl time.Duration, logger *zap.Logger, metrics *telemetry.CatalogMetrics) catalog.Client {
	if ttl <= 0 || store == nil {
		return next
	}
	return &CachedClient{
		next:    next,
		store:   store,
		ttl:     ttl,
		logger:  logger.Named("catalog_cache"),
		metrics: metrics,
	}
}

// Search implements catalog.Client.
func (c *CachedClient) Search(ctx context.Context, query string, page int) (*catalog.Page, error) {
	key := fmt.Sprintf("search:%s:%d", query, page)
	return cached(ctx, c, EndpointSearch, key, func() (*catalog.Page, error) {
		return c.next.Search(ctx, query, page)
	})
}

// ListByCategory implements catalog.Client.
func (c *CachedClient) ListByCategory(ctx context.Context, category catalog.Category, page int) (*catalog.Page, error) {
	key := fmt.Sprintf("list:%s:%d", category, page)
	return cached(ctx, c, EndpointCategory, key, func() (*catalog.Page, error) {
		return c.next.ListByCategory(ctx, category, page)
	})
}

// GetDetail implements catalog.Client.
func (c *CachedClient) GetDetail(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	return cached(ctx, c, EndpointDetail, "movie:"+id, func() (*catalog.MovieDetail, error) {
		return c.next.GetDetail(ctx, id)
	})
}

func cached[T any](ctx context.Context, c *CachedClient, endpoint, key string, load func() (*T, error)) (*T, error) {
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.metrics.Record(ctx, endpoint, telemetry.OutcomeHit, 0)
			return &v, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, cache.ErrMiss):
		c.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(v); err != nil {
		c.logger.Warn("Catalog cache encode failed", zap.String("key", key), zap.Error(err))
	} else if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
