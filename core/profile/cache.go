package profile

import (
	"context"
	"sync"
	"time"

	"github.com/gogf/gf/v2/frame/g"
	"golang.org/x/sync/singleflight"

	"github.com/janani-health/janani/pkg/schema"
)

// Store is the durable profile persistence capability. Get returns (nil, nil)
// for an unknown user.
type Store interface {
	Get(ctx context.Context, userID string) (*schema.UserProfile, error)
	Put(ctx context.Context, profile *schema.UserProfile) error
	Delete(ctx context.Context, userID string) error
}

type cacheEntry struct {
	profile   *schema.UserProfile
	expiresAt time.Time
}

// Cache is a read-through profile cache. Stale entries are refreshed from the
// store with request collapsing, so a burst of queries from one user costs a
// single store read.
type Cache struct {
	store Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	group   singleflight.Group

	// now is injectable for TTL tests.
	now func() time.Time
}

// NewCache 创建用户画像缓存
func NewCache(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the profile for userID, creating a default record on first
// sight. Callers receive an independent copy; mutating it never affects the
// cached entry.
//
// A store failure on a cache miss is not fatal to the request: an ephemeral
// default profile is returned so the pipeline can proceed without
// personalization.
func (c *Cache) Get(ctx context.Context, userID string) (*schema.UserProfile, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.profile.Copy(), nil
	}

	v, err, _ := c.group.Do(userID, func() (interface{}, error) {
		p, loadErr := c.load(ctx, userID)
		if loadErr != nil {
			return nil, loadErr
		}
		c.put(userID, p)
		return p, nil
	})
	if err != nil {
		g.Log().Warningf(ctx, "profile load failed for user %s, using ephemeral default: %v", userID, err)
		return defaultProfile(userID, c.now()), nil
	}
	return v.(*schema.UserProfile).Copy(), nil
}

// load reads the durable record, creating it on first sight.
func (c *Cache) load(ctx context.Context, userID string) (*schema.UserProfile, error) {
	p, err := c.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = defaultProfile(userID, c.now())
		if err := c.store.Put(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Touch records one completed interaction: resolved language, interaction
// time, query counter. Runs synchronously; the orchestrator invokes it from a
// background goroutine so it never sits on the response path.
func (c *Cache) Touch(ctx context.Context, userID string, language schema.Language) error {
	p, err := c.load(ctx, userID)
	if err != nil {
		return err
	}
	p.PreferredLanguage = language
	p.LastInteraction = c.now()
	p.QueryCount++
	if err := c.store.Put(ctx, p); err != nil {
		return err
	}
	c.put(userID, p)
	return nil
}

// Update overwrites mutable preference fields and refreshes the cache.
func (c *Cache) Update(ctx context.Context, profile *schema.UserProfile) error {
	if err := c.store.Put(ctx, profile); err != nil {
		return err
	}
	c.put(profile.UserID, profile.Copy())
	return nil
}

// Purge removes the user from both the cache and the durable store.
func (c *Cache) Purge(ctx context.Context, userID string) error {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
	return c.store.Delete(ctx, userID)
}

func (c *Cache) put(userID string, p *schema.UserProfile) {
	c.mu.Lock()
	c.entries[userID] = &cacheEntry{
		profile:   p.Copy(),
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func defaultProfile(userID string, now time.Time) *schema.UserProfile {
	return &schema.UserProfile{
		UserID:          userID,
		LastInteraction: now,
	}
}
