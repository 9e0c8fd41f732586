package social

import (
	"context"

	"github.com/google/uuid"
)

// UnreadCountCache caches the per-user unread notification counter.
// Listing and marking notifications happen far less often than the
// badge poll, so the counter is worth keeping hot.
type UnreadCountCache interface {
	// Get returns the cached count and whether it was present
	Get(ctx context.Context, userID uuid.UUID) (int64, bool)

	// Set stores the count
	Set(ctx context.Context, userID uuid.UUID, count int64)

	// Invalidate drops the cached count
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// NoOpUnreadCountCache never caches. Useful in tests and when redis is
// unavailable.
type NoOpUnreadCountCache struct{}

func (NoOpUnreadCountCache) Get(context.Context, uuid.UUID) (int64, bool) { return 0, false }
func (NoOpUnreadCountCache) Set(context.Context, uuid.UUID, int64)        {}
func (NoOpUnreadCountCache) Invalidate(context.Context, uuid.UUID)        {}
