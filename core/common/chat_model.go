package common

import (
	"context"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	einoSchema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

var (
	chatModelMu sync.Mutex
	chatModels  = map[schema.Language]einoModel.BaseChatModel{}
)

// GetChatModel returns the generation model for one language. The config
// section chat.<language> selects provider (openai-compatible or qwen),
// endpoint and model name; instances are cached as singletons.
func GetChatModel(ctx context.Context, language schema.Language) (einoModel.BaseChatModel, error) {
	chatModelMu.Lock()
	defer chatModelMu.Unlock()

	if cm, ok := chatModels[language]; ok {
		return cm, nil
	}

	prefix := "chat." + string(language)
	provider := g.Cfg().MustGet(ctx, prefix+".provider", "openai").String()
	apiKey := g.Cfg().MustGet(ctx, prefix+".apiKey", "").String()
	baseURL := g.Cfg().MustGet(ctx, prefix+".baseURL", "").String()
	modelName := g.Cfg().MustGet(ctx, prefix+".model", "").String()

	if modelName == "" {
		return nil, errors.Newf(errors.ErrGenerationFailed, "chat model not configured for language %s", language)
	}

	var (
		cm  einoModel.BaseChatModel
		err error
	)
	switch provider {
	case "qwen":
		cm, err = qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   modelName,
		})
	default:
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   modelName,
		})
	}
	if err != nil {
		return nil, errors.Newf(errors.ErrGenerationFailed, "failed to create chat model for %s: %v", language, err)
	}

	g.Log().Infof(ctx, "Chat model initialized for language %s: %s (%s)", language, modelName, provider)
	chatModels[language] = cm
	return cm, nil
}

// LLMTextGenerator adapts per-language chat models to the plain
// generateText capability consumed by the answer generator.
type LLMTextGenerator struct{}

// GenerateText sends the prompt as a single user message and returns the
// model output text.
func (t *LLMTextGenerator) GenerateText(ctx context.Context, prompt string, language schema.Language, maxTokens int) (string, error) {
	cm, err := GetChatModel(ctx, language)
	if err != nil {
		return "", err
	}

	msg, err := cm.Generate(ctx, []*einoSchema.Message{
		einoSchema.UserMessage(prompt),
	}, einoModel.WithMaxTokens(maxTokens))
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "generation call failed: %v", err)
	}
	if msg == nil || msg.Content == "" {
		return "", errors.New(errors.ErrGenerationFailed, "received empty completion")
	}
	return msg.Content, nil
}
