package schema

// Trimester 孕期阶段
type Trimester string

const (
	TrimesterFirst  Trimester = "first"
	TrimesterSecond Trimester = "second"
	TrimesterThird  Trimester = "third"
)

// Passage 表示检索到的知识片段
// Produced by the retrieval engine and immutable afterwards.
type Passage struct {
	// DocID 文档唯一标识
	DocID string `json:"doc_id"`
	// Content 片段内容
	Content string `json:"content"`
	// Score 向量检索相似度得分 - float32以直接与向量库兼容
	Score       float32   `json:"score"`
	SourceTitle string    `json:"source_title"`
	SourceURL   string    `json:"source_url"`
	Topic       string    `json:"topic,omitempty"`
	Trimester   Trimester `json:"trimester,omitempty"`
}

// RankedPassage is a Passage plus its cross-encoder relevance score and
// final rank. The embedded Passage is never mutated by the re-ranker.
type RankedPassage struct {
	Passage
	CrossEncoderScore float64 `json:"cross_encoder_score"`
	Rank              int     `json:"rank"`
}

// Source 回答引用的来源
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
}

// GenerationResult is the generator output. Every entry of SourcesUsed must
// correspond to a RankedPassage supplied to the generator for that call.
type GenerationResult struct {
	AnswerText  string    `json:"answer_text"`
	SourcesUsed []*Source `json:"sources_used"`
}
