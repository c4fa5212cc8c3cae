package rerank

import (
	"context"
	"sort"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/pkg/schema"
)

// RelevanceScorer is the cross-encoder capability: one relevance score in
// [0,1] per (query, passage) pair, in input order.
type RelevanceScorer interface {
	ScoreRelevance(ctx context.Context, query string, documents []string) ([]float64, error)
}

// Reranker reorders retrieval candidates by cross-encoder score.
type Reranker struct {
	scorer RelevanceScorer
}

// New 创建重排器。scorer may be nil, in which case every call takes the
// unranked degradation path.
func New(scorer RelevanceScorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores every (query, passage) pair and returns min(topN, len)
// passages sorted by crossEncoderScore descending. Ordering is fully
// deterministic: ties break by original retrieval score, then by DocID.
//
// If the scorer fails, the input is truncated to topN in retrieval order and
// ranked=false is returned. This is a degradation path, not a hard failure.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []*schema.Passage, topN int) (result []*schema.RankedPassage, ranked bool) {
	if len(passages) == 0 {
		return []*schema.RankedPassage{}, true
	}
	if topN <= 0 || topN > len(passages) {
		topN = len(passages)
	}

	if r.scorer == nil {
		return r.unranked(passages, topN), false
	}

	documents := make([]string, len(passages))
	for i, p := range passages {
		documents[i] = p.Content
	}

	scores, err := r.scorer.ScoreRelevance(ctx, query, documents)
	if err != nil || len(scores) != len(passages) {
		g.Log().Warningf(ctx, "cross-encoder scoring failed, falling back to retrieval order: %v", err)
		return r.unranked(passages, topN), false
	}

	out := make([]*schema.RankedPassage, len(passages))
	for i, p := range passages {
		out[i] = &schema.RankedPassage{
			Passage:           *p,
			CrossEncoderScore: scores[i],
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CrossEncoderScore != out[j].CrossEncoderScore {
			return out[i].CrossEncoderScore > out[j].CrossEncoderScore
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocID < out[j].DocID
	})

	out = out[:topN]
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, true
}

// unranked 降级路径：保持检索顺序截断
func (r *Reranker) unranked(passages []*schema.Passage, topN int) []*schema.RankedPassage {
	out := make([]*schema.RankedPassage, 0, topN)
	for i, p := range passages {
		if i >= topN {
			break
		}
		out = append(out, &schema.RankedPassage{
			Passage: *p,
			Rank:    i + 1,
		})
	}
	return out
}
