package retriever

import (
	"context"
	"sort"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/core/vector_store"
	"github.com/janani-health/janani/pkg/schema"
)

// Engine wraps the embedding and vector-index capabilities into the
// retrieval stage. Results come back sorted by similarity score descending;
// length is min(topK, corpus matches). No matches is not an error.
type Engine struct {
	store     vector_store.VectorStore
	embedders map[schema.Language]embedding.Embedder
	// trimesterBoost is added to the score of passages tagged with the
	// caller's trimester. Boost, not filter: untagged passages stay in.
	trimesterBoost float32
}

// NewEngine 创建检索引擎
func NewEngine(store vector_store.VectorStore, embedders map[schema.Language]embedding.Embedder, trimesterBoost float32) *Engine {
	return &Engine{
		store:          store,
		embedders:      embedders,
		trimesterBoost: trimesterBoost,
	}
}

// Retrieve embeds the query with the language-specific model and searches the
// language-specific index. A trimester from the caller's profile boosts
// matching passages. Index unavailability surfaces as ErrRetrievalUnavailable
// for the orchestrator's degradation policy; it is not swallowed here.
func (e *Engine) Retrieve(ctx context.Context, text string, language schema.Language, topK int, trimester schema.Trimester) ([]*schema.Passage, error) {
	embedder, ok := e.embedders[language]
	if !ok {
		return nil, errors.Newf(errors.ErrRetrievalUnavailable, "no embedder configured for language %s", language)
	}

	vectors, err := embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalUnavailable, "query embedding failed: %v", err)
	}
	if len(vectors) != 1 {
		return nil, errors.Newf(errors.ErrRetrievalUnavailable, "invalid embedding result length: got %d, expected 1", len(vectors))
	}

	vector := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		vector[i] = float32(v)
	}

	passages, err := e.store.Search(ctx, language, vector, topK)
	if err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return []*schema.Passage{}, nil
	}

	if trimester != "" && e.trimesterBoost > 0 {
		for _, p := range passages {
			if p.Trimester == trimester {
				p.Score += e.trimesterBoost
			}
		}
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Score > passages[j].Score
	})

	if len(passages) > topK {
		passages = passages[:topK]
	}
	return passages, nil
}
