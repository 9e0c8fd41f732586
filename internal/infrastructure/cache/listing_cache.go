package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appcatalog "github.com/comercium/backend/internal/application/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listingVersionKey = "catalog:listings:version"

// RedisListingCache implements appcatalog.ListCache on Redis. Pages are
// stored as JSON under a versioned prefix; Invalidate bumps the version
// counter so stale pages simply expire instead of being scanned for.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisListingCache creates a listing cache with the standard TTL
func NewRedisListingCache(client *redis.Client, logger *zap.Logger) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		ttl:    appcatalog.ListCacheTTL,
		logger: logger,
	}
}

// Get returns the cached page for the key, or ok=false on a miss
func (c *RedisListingCache) Get(ctx context.Context, key string) (*appcatalog.BrowseResult, bool) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, versioned).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("listing cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var result appcatalog.BrowseResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("listing cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Set stores a page under the key with the standard TTL
func (c *RedisListingCache) Set(ctx context.Context, key string, result *appcatalog.BrowseResult) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("listing cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, versioned, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached page by moving to a fresh version.
// Old entries expire on their own TTL.
func (c *RedisListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, listingVersionKey).Err(); err != nil {
		c.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func (c *RedisListingCache) versionedKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, listingVersionKey).Int64()
	if err != nil && err != redis.Nil {
		c.logger.Warn("listing cache version read failed", zap.Error(err))
		return "", err
	}
	return fmt.Sprintf("catalog:listings:%d:%s", version, key), nil
}

var _ appcatalog.ListCache = (*RedisListingCache)(nil)
