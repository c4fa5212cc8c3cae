package service

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/cache"
	"github.com/janani-health/janani/core/common"
	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/generate"
	"github.com/janani-health/janani/core/pipeline"
	"github.com/janani-health/janani/core/profile"
	"github.com/janani-health/janani/core/rerank"
	"github.com/janani-health/janani/core/retriever"
	"github.com/janani-health/janani/core/router"
	"github.com/janani-health/janani/core/safety"
	"github.com/janani-health/janani/core/vector_store"
	"github.com/janani-health/janani/core/voice"
	"github.com/janani-health/janani/internal/dao"
	"github.com/janani-health/janani/pkg/schema"
)

var (
	orchestrator *pipeline.Orchestrator
	profileCache *profile.Cache
	voiceClient  *voice.Client
)

// InitPipeline builds the singleton query pipeline from configuration. The
// optional capabilities (re-ranking, model safety scoring, voice) are wired
// only when their config sections are present; each one has a defined
// degradation path when absent.
func InitPipeline(ctx context.Context) error {
	conf := config.LoadPipelineConfig(ctx)

	store, err := vector_store.NewVectorStore(ctx)
	if err != nil {
		return err
	}

	hindiEmbedder, err := common.GetEmbedder(ctx, schema.LanguageHindi)
	if err != nil {
		return err
	}
	englishEmbedder, err := common.GetEmbedder(ctx, schema.LanguageEnglish)
	if err != nil {
		return err
	}
	engine := retriever.NewEngine(store, map[schema.Language]embedding.Embedder{
		schema.LanguageHindi:   hindiEmbedder,
		schema.LanguageEnglish: englishEmbedder,
	}, conf.TrimesterBoost)

	// rerank 可选：未配置时走检索顺序降级
	var reranker *rerank.Reranker
	rerankConf := config.LoadRerankConfig(ctx)
	if rerankConf.BaseURL != "" {
		scorer, err := common.NewCrossEncoderClient(ctx, rerankConf)
		if err != nil {
			return err
		}
		reranker = rerank.New(scorer)
	} else {
		g.Log().Warning(ctx, "rerank not configured, candidates pass through in retrieval order")
		reranker = rerank.New(nil)
	}

	generator := generate.New(&common.LLMTextGenerator{}, conf.ShortModeMaxRunes)

	// 安全分级：关键词阶段总是启用，模型打分可选
	var severityScorer safety.SeverityScorer
	safetyConf := config.LoadSafetyConfig(ctx)
	if safetyConf.BaseURL != "" {
		client, err := common.NewSeverityClient(ctx, safetyConf)
		if err != nil {
			return err
		}
		severityScorer = client
	} else {
		g.Log().Warning(ctx, "safety scorer not configured, keyword screening only")
	}
	classifier := safety.NewClassifier(severityScorer, conf.HighSeverityThreshold, conf.MediumSeverityThreshold, conf.SafetySampleRate)

	profileCache = profile.NewCache(dao.Profile, conf.ProfileCacheTTL)

	languageRouter := router.New(&common.LLMLanguageClassifier{})

	orchestrator = pipeline.New(conf, languageRouter, profileCache, engine, reranker, generator, classifier).
		WithQueryLogger(dao.QueryLog).
		WithResponseCache(cache.NewResponseCache(conf.ResponseCacheTTL, conf.ResponseCacheCap))

	// 语音能力可选
	voiceConf := config.LoadVoiceConfig(ctx)
	if voiceConf.BaseURL != "" {
		voiceClient, err = voice.NewClient(ctx, voiceConf)
		if err != nil {
			return err
		}
		orchestrator.WithSynthesizer(voice.NewSynthesizer(voiceClient))
	} else {
		g.Log().Warning(ctx, "voice not configured, voice mode degrades to text")
	}

	g.Log().Info(ctx, "query pipeline initialized")
	return nil
}

// GetOrchestrator 获取查询编排器
func GetOrchestrator() *pipeline.Orchestrator {
	return orchestrator
}

// GetProfileCache 获取用户画像缓存
func GetProfileCache() *profile.Cache {
	return profileCache
}

// GetVoiceClient returns the speech client, or nil when voice is not
// configured.
func GetVoiceClient() *voice.Client {
	return voiceClient
}
