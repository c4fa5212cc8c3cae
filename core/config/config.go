package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证 Milvus 配置
	milvusAddress := g.Cfg().MustGet(ctx, "milvus.address", "").String()
	if milvusAddress == "" {
		missingConfigs = append(missingConfigs, "milvus.address")
	}

	// 验证 Embedding 配置（按语言分别配置）
	for _, lang := range []string{"hindi", "english"} {
		key := fmt.Sprintf("embedding.%s.model", lang)
		if g.Cfg().MustGet(ctx, key, "").String() == "" {
			missingConfigs = append(missingConfigs, key)
		}
	}
	if g.Cfg().MustGet(ctx, "embedding.apiKey", "").String() == "" {
		missingConfigs = append(missingConfigs, "embedding.apiKey")
	}
	if g.Cfg().MustGet(ctx, "embedding.baseURL", "").String() == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}

	// 验证生成模型配置
	for _, lang := range []string{"hindi", "english"} {
		key := fmt.Sprintf("chat.%s.model", lang)
		if g.Cfg().MustGet(ctx, key, "").String() == "" {
			warnings = append(warnings, key+" is not set")
		}
	}

	// 验证 Rerank 配置
	if g.Cfg().MustGet(ctx, "rerank.baseURL", "").String() == "" {
		warnings = append(warnings, "rerank.baseURL is not set (re-ranking will degrade to retrieval order)")
	}

	// 验证安全分级配置
	if g.Cfg().MustGet(ctx, "safety.baseURL", "").String() == "" {
		warnings = append(warnings, "safety.baseURL is not set (model-based severity scoring disabled, keyword stage still active)")
	}

	// 验证数据库配置
	dbHost := g.Cfg().MustGet(ctx, "database.default.host", "").String()
	dbUser := g.Cfg().MustGet(ctx, "database.default.user", "").String()
	dbName := g.Cfg().MustGet(ctx, "database.default.name", "").String()
	if dbHost == "" {
		missingConfigs = append(missingConfigs, "database.default.host")
	}
	if dbUser == "" {
		missingConfigs = append(missingConfigs, "database.default.user")
	}
	if dbName == "" {
		missingConfigs = append(missingConfigs, "database.default.name")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")
	return nil
}

// PipelineConfig carries every tunable of the query pipeline. Thresholds and
// TTLs are configuration, not hard requirements; defaults below follow the
// initial rollout values and should be re-validated against labeled data.
type PipelineConfig struct {
	// Stage timeouts
	RetrieveTimeout time.Duration // default 500ms
	RerankTimeout   time.Duration // default 300ms
	GenerateTimeout time.Duration // default 2s
	SafetyTimeout   time.Duration // default 800ms
	Deadline        time.Duration // overall request deadline, default 10s

	// Generation retry policy
	GenerateRetries int           // bounded, default 2
	RetryBackoff    time.Duration // initial backoff, doubled per attempt

	// Retrieval
	TopK           int     // candidates fetched from the index, default 20
	TopN           int     // passages kept after re-ranking, default 5
	ScoreThreshold float64 // minimum similarity, default 0.2
	// TrimesterBoost is added to the similarity score of passages tagged
	// with the caller's trimester. Boost, not filter.
	TrimesterBoost float32

	// Safety thresholds
	HighSeverityThreshold   float64 // default 0.70
	MediumSeverityThreshold float64 // default 0.40
	SafetySampleRate        float64 // model scoring probability without keyword hit, default 0.10

	// Caches
	ProfileCacheTTL   time.Duration // default 5m
	ResponseCacheTTL  time.Duration // default 15m
	ResponseCacheCap  int           // LRU capacity for the in-memory fallback, default 512
	ShortModeMaxRunes int           // hard cap for short-mode answers, default 400
}

// LoadPipelineConfig reads the pipeline section with rollout defaults.
func LoadPipelineConfig(ctx context.Context) *PipelineConfig {
	return &PipelineConfig{
		RetrieveTimeout: g.Cfg().MustGet(ctx, "pipeline.retrieveTimeout", "500ms").Duration(),
		RerankTimeout:   g.Cfg().MustGet(ctx, "pipeline.rerankTimeout", "300ms").Duration(),
		GenerateTimeout: g.Cfg().MustGet(ctx, "pipeline.generateTimeout", "2s").Duration(),
		SafetyTimeout:   g.Cfg().MustGet(ctx, "pipeline.safetyTimeout", "800ms").Duration(),
		Deadline:        g.Cfg().MustGet(ctx, "pipeline.deadline", "10s").Duration(),

		GenerateRetries: g.Cfg().MustGet(ctx, "pipeline.generateRetries", 2).Int(),
		RetryBackoff:    g.Cfg().MustGet(ctx, "pipeline.retryBackoff", "200ms").Duration(),

		TopK:           g.Cfg().MustGet(ctx, "retriever.topK", 20).Int(),
		TopN:           g.Cfg().MustGet(ctx, "retriever.topN", 5).Int(),
		ScoreThreshold: g.Cfg().MustGet(ctx, "retriever.score", 0.2).Float64(),
		TrimesterBoost: float32(g.Cfg().MustGet(ctx, "retriever.trimesterBoost", 0.05).Float64()),

		HighSeverityThreshold:   g.Cfg().MustGet(ctx, "safety.highThreshold", 0.70).Float64(),
		MediumSeverityThreshold: g.Cfg().MustGet(ctx, "safety.mediumThreshold", 0.40).Float64(),
		SafetySampleRate:        g.Cfg().MustGet(ctx, "safety.sampleRate", 0.10).Float64(),

		ProfileCacheTTL:   g.Cfg().MustGet(ctx, "profile.cacheTTL", "5m").Duration(),
		ResponseCacheTTL:  g.Cfg().MustGet(ctx, "responseCache.ttl", "15m").Duration(),
		ResponseCacheCap:  g.Cfg().MustGet(ctx, "responseCache.capacity", 512).Int(),
		ShortModeMaxRunes: g.Cfg().MustGet(ctx, "generate.shortModeMaxRunes", 400).Int(),
	}
}

// EmbeddingConfig 按语言提取 embedding 配置
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// LoadEmbeddingConfig reads the embedding section for one language.
func LoadEmbeddingConfig(ctx context.Context, language string) *EmbeddingConfig {
	return &EmbeddingConfig{
		APIKey:     g.Cfg().MustGet(ctx, "embedding.apiKey").String(),
		BaseURL:    g.Cfg().MustGet(ctx, "embedding.baseURL").String(),
		Model:      g.Cfg().MustGet(ctx, fmt.Sprintf("embedding.%s.model", language)).String(),
		Dimensions: g.Cfg().MustGet(ctx, "embedding.dimensions", 1024).Int(),
	}
}

// RerankHTTPConfig rerank 服务配置
type RerankHTTPConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func (c *RerankHTTPConfig) GetRerankAPIKey() string  { return c.APIKey }
func (c *RerankHTTPConfig) GetRerankBaseURL() string { return c.BaseURL }
func (c *RerankHTTPConfig) GetRerankModel() string   { return c.Model }

// LoadRerankConfig reads the rerank section.
func LoadRerankConfig(ctx context.Context) *RerankHTTPConfig {
	return &RerankHTTPConfig{
		APIKey:  g.Cfg().MustGet(ctx, "rerank.apiKey", "").String(),
		BaseURL: g.Cfg().MustGet(ctx, "rerank.baseURL", "").String(),
		Model:   g.Cfg().MustGet(ctx, "rerank.model", "rerank-v1").String(),
	}
}

// VoiceHTTPConfig 语音服务配置
type VoiceHTTPConfig struct {
	APIKey   string
	BaseURL  string
	SttModel string
	TtsModel string
}

// LoadVoiceConfig reads the voice section. An empty BaseURL disables the
// voice boundary entirely.
func LoadVoiceConfig(ctx context.Context) *VoiceHTTPConfig {
	return &VoiceHTTPConfig{
		APIKey:   g.Cfg().MustGet(ctx, "voice.apiKey", "").String(),
		BaseURL:  g.Cfg().MustGet(ctx, "voice.baseURL", "").String(),
		SttModel: g.Cfg().MustGet(ctx, "voice.sttModel", "whisper-1").String(),
		TtsModel: g.Cfg().MustGet(ctx, "voice.ttsModel", "tts-1").String(),
	}
}

// SafetyHTTPConfig 安全分级服务配置
type SafetyHTTPConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadSafetyConfig reads the safety scorer section.
func LoadSafetyConfig(ctx context.Context) *SafetyHTTPConfig {
	return &SafetyHTTPConfig{
		APIKey:  g.Cfg().MustGet(ctx, "safety.apiKey", "").String(),
		BaseURL: g.Cfg().MustGet(ctx, "safety.baseURL", "").String(),
		Model:   g.Cfg().MustGet(ctx, "safety.model", "severity-v1").String(),
	}
}
