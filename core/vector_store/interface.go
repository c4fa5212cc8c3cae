package vector_store

import (
	"context"

	"github.com/janani-health/janani/pkg/schema"
)

// VectorStoreType 向量数据库类型
type VectorStoreType string

const (
	VectorStoreTypeMilvus VectorStoreType = "milvus"
)

// VectorStore is the approximate-nearest-neighbor search capability over the
// per-language knowledge corpus. Indexing at rest is owned by the ingestion
// service; the query path only searches.
type VectorStore interface {
	// Search returns the topK most similar passages from the collection of
	// the given language, sorted by similarity score descending.
	Search(ctx context.Context, language schema.Language, vector []float32, topK int) ([]*schema.Passage, error)

	// CollectionExists 检查语言对应的集合是否存在
	CollectionExists(ctx context.Context, language schema.Language) (bool, error)

	// Close releases the underlying client.
	Close(ctx context.Context) error
}
