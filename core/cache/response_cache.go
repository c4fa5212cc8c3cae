package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/crypto/gmd5"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gcache"
	"github.com/redis/go-redis/v9"

	"github.com/janani-health/janani/pkg/schema"
)

const responseKeyPrefix = "janani:response:"

// ResponseCache holds finished answers keyed by a query fingerprint. It is
// the last line of defense when retrieval is down: a recent identical query
// can still be answered. Redis is the primary tier; a bounded in-process LRU
// serves when redis is unavailable.
type ResponseCache struct {
	ttl   time.Duration
	local *gcache.Cache
}

// NewResponseCache 创建响应缓存
func NewResponseCache(ttl time.Duration, lruCapacity int) *ResponseCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if lruCapacity <= 0 {
		lruCapacity = 512
	}
	return &ResponseCache{
		ttl:   ttl,
		local: gcache.New(lruCapacity),
	}
}

// Fingerprint derives the cache key for one query. Same normalized text,
// resolved language and mode hit the same entry; user identity is deliberately
// excluded so cached answers carry no personal data.
func Fingerprint(text string, language schema.Language, mode schema.Mode) string {
	return gmd5.MustEncryptString(fmt.Sprintf("%s|%s|%s", text, language, mode))
}

// Put stores a finished response in both tiers. Failures are logged, never
// propagated: caching is best-effort.
func (c *ResponseCache) Put(ctx context.Context, fingerprint string, resp *schema.QueryResponse) {
	data, err := sonic.Marshal(resp)
	if err != nil {
		g.Log().Warningf(ctx, "response cache marshal failed: %v", err)
		return
	}

	if err := c.local.Set(ctx, fingerprint, data, c.ttl); err != nil {
		g.Log().Warningf(ctx, "response cache local set failed: %v", err)
	}

	if Available() {
		if err := Set(ctx, responseKeyPrefix+fingerprint, string(data), c.ttl); err != nil {
			g.Log().Warningf(ctx, "response cache redis set failed: %v", err)
		}
	}
}

// Get returns the cached response for fingerprint, or nil on a miss. The
// local tier is consulted first; redis backfills it on a hit.
func (c *ResponseCache) Get(ctx context.Context, fingerprint string) *schema.QueryResponse {
	if v, err := c.local.Get(ctx, fingerprint); err == nil && !v.IsNil() {
		return c.decode(ctx, v.Bytes())
	}

	if !Available() {
		return nil
	}
	data, err := Get(ctx, responseKeyPrefix+fingerprint)
	if err != nil {
		if err != redis.Nil {
			g.Log().Warningf(ctx, "response cache redis get failed: %v", err)
		}
		return nil
	}
	resp := c.decode(ctx, []byte(data))
	if resp != nil {
		if err := c.local.Set(ctx, fingerprint, []byte(data), c.ttl); err != nil {
			g.Log().Warningf(ctx, "response cache local backfill failed: %v", err)
		}
	}
	return resp
}

func (c *ResponseCache) decode(ctx context.Context, data []byte) *schema.QueryResponse {
	var resp schema.QueryResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		g.Log().Warningf(ctx, "response cache unmarshal failed: %v", err)
		return nil
	}
	return &resp
}
