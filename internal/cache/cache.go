// Package cache is a redis front for the dedup gate: digests of
// already-ingested sources are kept hot so re-runs over a large drop
// directory skip the Postgres lookup for most files. A miss (or any
// redis error) just falls through to the store.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	Redis     redis.UniversalClient
	Namespace string
	TTL       time.Duration
}

func NewCache(namespace string, redisCl redis.UniversalClient) *Cache {
	return &Cache{
		Namespace: namespace,
		Redis:     redisCl,
		TTL:       24 * time.Hour,
	}
}

// HasDigest reports whether the digest is known to the cache. Errors
// count as a miss; correctness comes from the store, the cache only
// saves round trips.
func (c *Cache) HasDigest(ctx context.Context, hash string) bool {
	if c == nil || c.Redis == nil {
		return false
	}
	n, err := c.Redis.Exists(ctx, c.Namespace+":"+hash).Result()
	return err == nil && n > 0
}

// MarkDigest records a digest after its rows were persisted.
func (c *Cache) MarkDigest(ctx context.Context, hash string) {
	if c == nil || c.Redis == nil {
		return
	}
	_ = c.Redis.Set(ctx, c.Namespace+":"+hash, 1, c.TTL).Err()
}
