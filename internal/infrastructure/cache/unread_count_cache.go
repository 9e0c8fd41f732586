package cache

import (
	"context"
	"time"

	appsocial "github.com/comercium/backend/internal/application/social"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UnreadCountTTL bounds how stale the notification badge can get when an
// invalidation is lost.
const UnreadCountTTL = 10 * time.Minute

// RedisUnreadCountCache implements appsocial.UnreadCountCache on Redis
type RedisUnreadCountCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisUnreadCountCache creates an unread counter cache
func NewRedisUnreadCountCache(client *redis.Client, logger *zap.Logger) *RedisUnreadCountCache {
	return &RedisUnreadCountCache{client: client, logger: logger}
}

// Get returns the cached count and whether it was present
func (c *RedisUnreadCountCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool) {
	count, err := c.client.Get(ctx, unreadCountKey(userID)).Int64()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("unread count cache read failed", zap.Error(err))
		}
		return 0, false
	}
	return count, true
}

// Set stores the count
func (c *RedisUnreadCountCache) Set(ctx context.Context, userID uuid.UUID, count int64) {
	if err := c.client.Set(ctx, unreadCountKey(userID), count, UnreadCountTTL).Err(); err != nil {
		c.logger.Warn("unread count cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached count
func (c *RedisUnreadCountCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		c.logger.Warn("unread count cache invalidation failed", zap.Error(err))
	}
}

func unreadCountKey(userID uuid.UUID) string {
	return "social:unread:" + userID.String()
}

var _ appsocial.UnreadCountCache = (*RedisUnreadCountCache)(nil)
