package common

import (
	"context"
	"sync"

	embopenai "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

var (
	embedderMu sync.Mutex
	embedders  = map[schema.Language]embedding.Embedder{}
)

// GetEmbedder returns the embedding client for one language. The corpus is
// indexed per language with language-specific models, so the instances are
// kept as separate singletons.
func GetEmbedder(ctx context.Context, language schema.Language) (embedding.Embedder, error) {
	embedderMu.Lock()
	defer embedderMu.Unlock()

	if e, ok := embedders[language]; ok {
		return e, nil
	}

	conf := config.LoadEmbeddingConfig(ctx, string(language))
	if conf.APIKey == "" || conf.BaseURL == "" || conf.Model == "" {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding config incomplete for language %s", language)
	}

	dims := conf.Dimensions
	e, err := embopenai.NewEmbedder(ctx, &embopenai.EmbeddingConfig{
		APIKey:     conf.APIKey,
		BaseURL:    conf.BaseURL,
		Model:      conf.Model,
		Dimensions: &dims,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "failed to create embedder for %s: %v", language, err)
	}

	g.Log().Infof(ctx, "Embedder initialized for language %s, model %s", language, conf.Model)
	embedders[language] = e
	return e, nil
}
