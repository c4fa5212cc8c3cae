package profile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janani-health/janani/pkg/schema"
)

type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*schema.UserProfile
	getCalls int
	putCalls int
	failGet  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]*schema.UserProfile{}}
}

func (s *fakeStore) Get(ctx context.Context, userID string) (*schema.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.failGet {
		return nil, fmt.Errorf("db down")
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return p.Copy(), nil
}

func (s *fakeStore) Put(ctx context.Context, profile *schema.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	s.profiles[profile.UserID] = profile.Copy()
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

// TestCacheCreateOnFirstSeen 首次访问自动建档
func TestCacheCreateOnFirstSeen(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	p, err := c.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 1, store.putCalls, "应当持久化默认档案")
}

// TestCacheHit 有效期内不再查库
func TestCacheHit(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	_, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	calls := store.getCalls

	for i := 0; i < 5; i++ {
		_, err = c.Get(context.Background(), "u1")
		require.NoError(t, err)
	}
	assert.Equal(t, calls, store.getCalls)
}

// TestCacheTTLExpiry 过期后回源刷新
func TestCacheTTLExpiry(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	calls := store.getCalls

	// 档案在库里被别的实例改了
	store.profiles["u1"].Trimester = schema.TrimesterThird

	now = now.Add(2 * time.Minute)
	p, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Greater(t, store.getCalls, calls)
	assert.Equal(t, schema.TrimesterThird, p.Trimester)
}

// TestCacheCopyIsolation 返回副本，调用方修改不影响缓存
func TestCacheCopyIsolation(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	p1, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	p1.Trimester = schema.TrimesterFirst

	p2, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, p2.Trimester)
}

// TestCacheTouch 记录交互并累加计数
func TestCacheTouch(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	require.NoError(t, c.Touch(context.Background(), "u1", schema.LanguageHindi))
	require.NoError(t, c.Touch(context.Background(), "u1", schema.LanguageHindi))

	p, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.QueryCount)
	assert.Equal(t, schema.LanguageHindi, p.PreferredLanguage)
	assert.False(t, p.LastInteraction.IsZero())
}

// TestCachePurge 清除缓存与持久层
func TestCachePurge(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	_, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, c.Purge(context.Background(), "u1"))

	_, ok := store.profiles["u1"]
	assert.False(t, ok)

	// 再次访问视为新用户
	p, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.QueryCount)
}

// TestCacheStoreFailure 持久层故障时返回临时默认档案
func TestCacheStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failGet = true
	c := NewCache(store, time.Minute)

	p, err := c.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
}

// TestCacheSingleflight 并发未命中只回源一次
func TestCacheSingleflight(t *testing.T) {
	store := newFakeStore()
	c := NewCache(store, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// singleflight 折叠并发请求；允许个别窗口边缘的重复回源
	assert.LessOrEqual(t, store.getCalls, 3)
}
