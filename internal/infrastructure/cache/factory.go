package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultMaxEntries      = 1000
	defaultCleanupInterval = 5 * time.Minute
)

// NewStore returns a Redis-backed store when client is non-nil and reachable,
// falling back to an in-memory store otherwise.
func NewStore(ctx context.Context, client redis.UniversalClient, keyPrefix string, logger *zap.Logger) Store {
	if client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		err := client.Ping(pingCtx).Err()
		if err == nil {
			logger.Info("Using Redis cache store", zap.String("prefix", keyPrefix))
			return NewRedisStore(client, keyPrefix)
		}
		logger.Warn("Redis unavailable, falling back to in-memory cache store", zap.Error(err))
	}

	return NewInMemoryStore(defaultMaxEntries, defaultCleanupInterval)
}
