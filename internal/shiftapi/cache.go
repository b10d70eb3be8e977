package shiftapi

import (
	"context"
	"encoding/json"

	"shiftbook/internal/metrics"
)

const (
	cachePrefix  = "shiftbook:"
	listCacheKey = cachePrefix + "shifts"
)

func shiftCacheKey(id string) string {
	return cachePrefix + "shift:" + id
}

type freshReadKey struct{}

// WithFreshRead makes GET calls under ctx skip the cache lookup. The response
// is still written back.
func WithFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

func isFreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}

func (c *Client) cacheEnabled() bool {
	return c.redis != nil && c.cacheTTL > 0
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if !c.cacheEnabled() || isFreshRead(ctx) {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	metrics.IncCacheLookup(true)
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if !c.cacheEnabled() {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// invalidate drops cached reads made stale by a successful mutation of id.
func (c *Client) invalidate(ctx context.Context, id string) {
	if !c.cacheEnabled() {
		return
	}
	if err := c.redis.Del(context.WithoutCancel(ctx), listCacheKey, shiftCacheKey(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("shift_id", id).Msg("cache invalidation failed")
	}
}
