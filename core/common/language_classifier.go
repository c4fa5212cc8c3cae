package common

import (
	"context"
	"fmt"
	"strings"

	einoModel "github.com/cloudwego/eino/components/model"
	einoSchema "github.com/cloudwego/eino/schema"

	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

const languageClassifyPrompt = `Identify the language of the following user message. ` +
	`Answer with exactly one word: "hindi" or "english". Romanized Hindi counts as hindi.

Message: %s`

// LLMLanguageClassifier is the fallback language detector used when script
// analysis is inconclusive. It reuses the English chat model with a
// single-word classification prompt.
type LLMLanguageClassifier struct{}

// ClassifyLanguage returns hindi or english for the given text.
func (c *LLMLanguageClassifier) ClassifyLanguage(ctx context.Context, text string) (schema.Language, error) {
	cm, err := GetChatModel(ctx, schema.LanguageEnglish)
	if err != nil {
		return "", errors.Newf(errors.ErrLanguageDetectionFailed, "no classifier model available: %v", err)
	}

	msg, err := cm.Generate(ctx, []*einoSchema.Message{
		einoSchema.UserMessage(fmt.Sprintf(languageClassifyPrompt, text)),
	}, einoModel.WithMaxTokens(4))
	if err != nil {
		return "", errors.Newf(errors.ErrLanguageDetectionFailed, "classifier call failed: %v", err)
	}

	answer := strings.ToLower(strings.TrimSpace(msg.Content))
	switch {
	case strings.Contains(answer, "hindi"):
		return schema.LanguageHindi, nil
	case strings.Contains(answer, "english"):
		return schema.LanguageEnglish, nil
	default:
		return "", errors.Newf(errors.ErrLanguageDetectionFailed, "unrecognized classifier output: %q", answer)
	}
}
