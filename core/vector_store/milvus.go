package vector_store

import (
	"context"
	"fmt"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

// MilvusStore Milvus向量存储实例
type MilvusStore struct {
	client      *milvusclient.Client
	database    string
	collections map[schema.Language]string
}

// InitializeMilvusStore connects to Milvus using the config file and resolves
// the per-language collection names.
func InitializeMilvusStore(ctx context.Context) (VectorStore, error) {
	address := g.Cfg().MustGet(ctx, "milvus.address", "").String()
	database := g.Cfg().MustGet(ctx, "milvus.database", "default").String()

	if address == "" {
		return nil, errors.New(errors.ErrVectorStoreInit, "milvus.address is required but not found in config file")
	}

	g.Log().Infof(ctx, "Connecting to Milvus at: %s, database: %s", address, database)

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: address,
		DBName:  database,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to create milvus client (address: %s): %v", address, err)
	}

	collections := map[schema.Language]string{
		schema.LanguageHindi:   g.Cfg().MustGet(ctx, "milvus.collections.hindi", "maternal_corpus_hi").String(),
		schema.LanguageEnglish: g.Cfg().MustGet(ctx, "milvus.collections.english", "maternal_corpus_en").String(),
	}

	return &MilvusStore{
		client:      client,
		database:    database,
		collections: collections,
	}, nil
}

// collectionFor 返回语言对应的集合名
func (m *MilvusStore) collectionFor(language schema.Language) (string, error) {
	name, ok := m.collections[language]
	if !ok || name == "" {
		return "", errors.Newf(errors.ErrRetrievalUnavailable, "no collection configured for language %s", language)
	}
	return name, nil
}

// CollectionExists 检查语言对应的集合是否存在
func (m *MilvusStore) CollectionExists(ctx context.Context, language schema.Language) (bool, error) {
	name, err := m.collectionFor(language)
	if err != nil {
		return false, err
	}
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return false, errors.Newf(errors.ErrRetrievalUnavailable, "failed to check collection %s: %v", name, err)
	}
	return has, nil
}

// Search 在语言对应的集合上执行近似最近邻搜索
func (m *MilvusStore) Search(ctx context.Context, language schema.Language, vector []float32, topK int) ([]*schema.Passage, error) {
	collectionName, err := m.collectionFor(language)
	if err != nil {
		return nil, err
	}

	searchOpt := milvusclient.NewSearchOption(collectionName, topK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField("vector").
		WithOutputFields("doc_id", "content", "source_title", "source_url", "topic", "trimester").
		WithConsistencyLevel(entity.ClBounded)

	results, err := m.client.Search(ctx, searchOpt)
	if err != nil {
		// index capability down, surfaced for the orchestrator's degradation policy
		return nil, errors.Newf(errors.ErrRetrievalUnavailable, "milvus search failed on %s: %v", collectionName, err)
	}

	if len(results) == 0 {
		return []*schema.Passage{}, nil
	}

	return convertResultsToPassages(results[0].Fields, results[0].Scores)
}

// convertResultsToPassages 转换搜索结果为知识片段
func convertResultsToPassages(columns []column.Column, scores []float32) ([]*schema.Passage, error) {
	if len(columns) == 0 {
		return []*schema.Passage{}, nil
	}

	numDocs := columns[0].Len()
	result := make([]*schema.Passage, numDocs)
	for i := range result {
		result[i] = &schema.Passage{}
	}

	for i := 0; i < numDocs && i < len(scores); i++ {
		result[i].Score = scores[i]
	}

	for _, col := range columns {
		for i := 0; i < col.Len() && i < numDocs; i++ {
			val, err := col.Get(i)
			if err != nil {
				return nil, fmt.Errorf("failed to get column %s: %w", col.Name(), err)
			}
			str, ok := val.(string)
			if !ok {
				continue
			}
			switch col.Name() {
			case "doc_id":
				result[i].DocID = str
			case "content":
				result[i].Content = str
			case "source_title":
				result[i].SourceTitle = str
			case "source_url":
				result[i].SourceURL = str
			case "topic":
				result[i].Topic = str
			case "trimester":
				result[i].Trimester = schema.Trimester(str)
			}
		}
	}

	return result, nil
}

// Close releases the underlying client.
func (m *MilvusStore) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}
