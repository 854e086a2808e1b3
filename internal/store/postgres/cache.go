package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/fmateoc/entity-matching/pkg/model"
)

// loader fetches the entities for one cache key from the database.
type loader func(ctx context.Context) ([]model.StoreEntity, error)

type cacheEntry struct {
	entities  []model.StoreEntity
	expiresAt time.Time
}

// identifierCache is a small write-through cache for identifier lookups,
// modeled on the Guava LoadingCache the original repository used:
// fixed TTL per entry, bounded size, miss always falls through to the
// loader rather than returning a stale negative.
type identifierCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
}

func newIdentifierCache(ttl time.Duration, maxEntries int) *identifierCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &identifierCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
	}
}

func (c *identifierCache) get(key string, now time.Time) ([]model.StoreEntity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.entities, true
}

func (c *identifierCache) put(key string, entities []model.StoreEntity, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = cacheEntry{entities: entities, expiresAt: now.Add(c.ttl)}
}

// evictOldest drops one entry to make room. Call with mu held.
func (c *identifierCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, v := range c.entries {
		if first || v.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, first = k, v.expiresAt, false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

func (c *identifierCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// cachedLookup serves kind:value from the cache when the entry hasn't
// aged past its freshness window, otherwise loads it and repopulates.
func (r *Repository) cachedLookup(ctx context.Context, kind, value string, load loader) ([]model.StoreEntity, error) {
	key := kind + ":" + value
	now := time.Now()

	if entities, ok := r.cache.get(key, now); ok {
		return entities, nil
	}

	entities, err := load(ctx)
	if err != nil {
		return nil, err
	}

	r.cache.put(key, entities, now)
	return entities, nil
}
