package vector_store

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/errors"
)

// NewVectorStore 根据配置创建向量存储实例
func NewVectorStore(ctx context.Context) (VectorStore, error) {
	storeType := VectorStoreType(g.Cfg().MustGet(ctx, "vectordb.type", "milvus").String())

	switch storeType {
	case VectorStoreTypeMilvus:
		return InitializeMilvusStore(ctx)
	default:
		return nil, errors.Newf(errors.ErrVectorStoreInit, "unsupported vector store type: %s", storeType)
	}
}
