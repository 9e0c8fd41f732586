package catalog

import (
	"context"
	"time"
)

// ListCacheTTL is how long a cached browse page stays valid
const ListCacheTTL = 5 * time.Minute

// ListCache caches browse result pages. Misses and cache errors are
// equivalent: the service falls through to the database.
type ListCache interface {
	// Get returns the cached page for the key, or ok=false on a miss
	Get(ctx context.Context, key string) (result *BrowseResult, ok bool)

	// Set stores a page under the key with the standard TTL
	Set(ctx context.Context, key string, result *BrowseResult)

	// Invalidate drops every cached page. Called on any product write.
	Invalidate(ctx context.Context)
}

// NoOpListCache disables caching. Useful in tests.
type NoOpListCache struct{}

// Get always misses.
func (NoOpListCache) Get(context.Context, string) (*BrowseResult, bool) { return nil, false }

// Set does nothing.
func (NoOpListCache) Set(context.Context, string, *BrowseResult) {}

// Invalidate does nothing.
func (NoOpListCache) Invalidate(context.Context) {}

var _ ListCache = (*NoOpListCache)(nil)
