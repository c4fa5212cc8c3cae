package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janani-health/janani/pkg/schema"
)

// TestFingerprint 指纹的稳定性与区分度
func TestFingerprint(t *testing.T) {
	t.Run("相同输入指纹一致", func(t *testing.T) {
		a := Fingerprint("what to eat", schema.LanguageEnglish, schema.ModeStandard)
		b := Fingerprint("what to eat", schema.LanguageEnglish, schema.ModeStandard)
		assert.Equal(t, a, b)
	})

	t.Run("语言和模式参与区分", func(t *testing.T) {
		base := Fingerprint("what to eat", schema.LanguageEnglish, schema.ModeStandard)
		assert.NotEqual(t, base, Fingerprint("what to eat", schema.LanguageHindi, schema.ModeStandard))
		assert.NotEqual(t, base, Fingerprint("what to eat", schema.LanguageEnglish, schema.ModeShort))
		assert.NotEqual(t, base, Fingerprint("what not to eat", schema.LanguageEnglish, schema.ModeStandard))
	})
}

// TestResponseCacheLocalTier redis 缺席时本地层独立工作
func TestResponseCacheLocalTier(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(time.Minute, 16)

	resp := &schema.QueryResponse{
		Answer:   "cached answer",
		Language: schema.LanguageHindi,
		Sources:  []*schema.Source{{Title: "guide", URL: "https://example.org"}},
	}

	fp := Fingerprint("q", schema.LanguageHindi, schema.ModeStandard)
	c.Put(ctx, fp, resp)

	got := c.Get(ctx, fp)
	require.NotNil(t, got)
	assert.Equal(t, "cached answer", got.Answer)
	assert.Equal(t, schema.LanguageHindi, got.Language)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "guide", got.Sources[0].Title)
}

// TestResponseCacheMiss 未写入的指纹返回 nil
func TestResponseCacheMiss(t *testing.T) {
	c := NewResponseCache(time.Minute, 16)
	assert.Nil(t, c.Get(context.Background(), Fingerprint("never seen", schema.LanguageEnglish, schema.ModeStandard)))
}

// TestResponseCacheTTL 过期条目不再返回
func TestResponseCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(50*time.Millisecond, 16)

	fp := Fingerprint("q", schema.LanguageEnglish, schema.ModeStandard)
	c.Put(ctx, fp, &schema.QueryResponse{Answer: "short lived"})
	require.NotNil(t, c.Get(ctx, fp))

	time.Sleep(80 * time.Millisecond)
	assert.Nil(t, c.Get(ctx, fp))
}

// TestResponseCacheLRUCapacity 本地层容量受限
func TestResponseCacheLRUCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(time.Minute, 4)

	for i := 0; i < 32; i++ {
		fp := Fingerprint(fmt.Sprintf("question %d", i), schema.LanguageEnglish, schema.ModeStandard)
		c.Put(ctx, fp, &schema.QueryResponse{Answer: fmt.Sprintf("answer %d", i)})
	}

	// LRU 淘汰是异步的，等一个清理周期
	time.Sleep(2 * time.Second)

	hits := 0
	for i := 0; i < 32; i++ {
		fp := Fingerprint(fmt.Sprintf("question %d", i), schema.LanguageEnglish, schema.ModeStandard)
		if c.Get(ctx, fp) != nil {
			hits++
		}
	}
	assert.LessOrEqual(t, hits, 8, "淘汰后只保留近期条目")
}
