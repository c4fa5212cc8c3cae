package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeVectorStore struct {
	passages []*schema.Passage
	err      error
	lastTopK int
	lastLang schema.Language
}

func (f *fakeVectorStore) Search(ctx context.Context, language schema.Language, vector []float32, topK int) ([]*schema.Passage, error) {
	f.lastTopK = topK
	f.lastLang = language
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*schema.Passage, len(f.passages))
	for i, p := range f.passages {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeVectorStore) CollectionExists(ctx context.Context, language schema.Language) (bool, error) {
	return true, nil
}

func (f *fakeVectorStore) Close(ctx context.Context) error { return nil }

func corpus(n int) []*schema.Passage {
	out := make([]*schema.Passage, n)
	for i := 0; i < n; i++ {
		out[i] = &schema.Passage{
			DocID:   fmt.Sprintf("doc-%02d", i),
			Content: fmt.Sprintf("content %d", i),
			Score:   float32(n-i) / float32(n+1),
		}
	}
	return out
}

func newTestEngine(store *fakeVectorStore, boost float32) *Engine {
	return NewEngine(store, map[schema.Language]embedding.Embedder{
		schema.LanguageHindi:   &fakeEmbedder{},
		schema.LanguageEnglish: &fakeEmbedder{},
	}, boost)
}

// TestRetrieveResultSize 结果数为 min(topK, 语料量)
func TestRetrieveResultSize(t *testing.T) {
	t.Run("语料充足", func(t *testing.T) {
		store := &fakeVectorStore{passages: corpus(30)}
		e := newTestEngine(store, 0)

		out, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 20, "")
		require.NoError(t, err)
		assert.Len(t, out, 20)
	})

	t.Run("语料不足", func(t *testing.T) {
		store := &fakeVectorStore{passages: corpus(3)}
		e := newTestEngine(store, 0)

		out, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 20, "")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("空语料不算错误", func(t *testing.T) {
		store := &fakeVectorStore{}
		e := newTestEngine(store, 0)

		out, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 20, "")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

// TestRetrieveScoreOrdering 按相似度降序返回
func TestRetrieveScoreOrdering(t *testing.T) {
	store := &fakeVectorStore{passages: corpus(10)}
	e := newTestEngine(store, 0)

	out, err := e.Retrieve(context.Background(), "q", schema.LanguageHindi, 10, "")
	require.NoError(t, err)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
	assert.Equal(t, schema.LanguageHindi, store.lastLang)
}

// TestRetrieveTrimesterBoost 孕期标签加权但不过滤
func TestRetrieveTrimesterBoost(t *testing.T) {
	store := &fakeVectorStore{passages: []*schema.Passage{
		{DocID: "general", Content: "general advice", Score: 0.80},
		{DocID: "matched", Content: "third trimester advice", Score: 0.78, Trimester: schema.TrimesterThird},
		{DocID: "other", Content: "first trimester advice", Score: 0.75, Trimester: schema.TrimesterFirst},
	}}
	e := newTestEngine(store, 0.05)

	out, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 10, schema.TrimesterThird)
	require.NoError(t, err)

	require.Len(t, out, 3, "不匹配孕期的段落不被过滤")
	assert.Equal(t, "matched", out[0].DocID, "加权后匹配段落上移")
	assert.InDelta(t, 0.83, float64(out[0].Score), 1e-6)
	assert.InDelta(t, 0.75, float64(out[2].Score), 1e-6, "其他孕期段落不加权")
}

// TestRetrieveIndexDown 向量库不可用时错误上抛
func TestRetrieveIndexDown(t *testing.T) {
	store := &fakeVectorStore{err: errors.New(errors.ErrRetrievalUnavailable, "milvus unreachable")}
	e := newTestEngine(store, 0)

	_, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 20, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRetrievalUnavailable))
}

// TestRetrieveEmbeddingFailure 向量化失败同样归为检索不可用
func TestRetrieveEmbeddingFailure(t *testing.T) {
	store := &fakeVectorStore{passages: corpus(3)}
	e := NewEngine(store, map[schema.Language]embedding.Embedder{
		schema.LanguageEnglish: &fakeEmbedder{err: fmt.Errorf("quota exceeded")},
	}, 0)

	_, err := e.Retrieve(context.Background(), "q", schema.LanguageEnglish, 20, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRetrievalUnavailable))
}

// TestRetrieveUnknownLanguage 缺少对应语言的向量化模型
func TestRetrieveUnknownLanguage(t *testing.T) {
	store := &fakeVectorStore{passages: corpus(3)}
	e := NewEngine(store, map[schema.Language]embedding.Embedder{}, 0)

	_, err := e.Retrieve(context.Background(), "q", schema.LanguageHindi, 20, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRetrievalUnavailable))
}
