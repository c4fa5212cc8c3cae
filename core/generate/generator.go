package generate

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/common"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/pkg/schema"
)

// TextGenerator is the language-model capability consumed by the generator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, language schema.Language, maxTokens int) (string, error)
}

// Generator builds grounded prompts, calls the model and verifies that every
// cited source was actually supplied.
type Generator struct {
	llm TextGenerator
	// shortModeMaxRunes caps short-mode answers; violations are truncated
	// at a sentence boundary.
	shortModeMaxRunes int
}

// New 创建回答生成器
func New(llm TextGenerator, shortModeMaxRunes int) *Generator {
	if shortModeMaxRunes <= 0 {
		shortModeMaxRunes = 400
	}
	return &Generator{llm: llm, shortModeMaxRunes: shortModeMaxRunes}
}

var citationPattern = regexp.MustCompile(`\[S(\d+)\]`)

// Generate produces a grounded answer from the ranked passages.
//
// With no passages the model is never called and the canned "no verified
// information" answer is returned: this is the no-hallucination guard.
// An answer citing an unsupplied source is regenerated once with stricter
// instructions, then degraded to the canned answer.
func (x *Generator) Generate(ctx context.Context, queryText string, passages []*schema.RankedPassage, language schema.Language, profile *schema.UserProfile, mode schema.Mode) (*schema.GenerationResult, error) {
	if len(passages) == 0 {
		return x.Canned(language), nil
	}

	maxTokens := maxTokensFor(mode)

	answer, cited, err := x.generateOnce(ctx, queryText, passages, language, profile, mode, maxTokens, false)
	if err != nil {
		return nil, err
	}
	if cited == nil {
		// grounding violation: one retry with stricter instructions
		g.Log().Warningf(ctx, "answer cited unsupplied sources, regenerating with strict prompt")
		answer, cited, err = x.generateOnce(ctx, queryText, passages, language, profile, mode, maxTokens, true)
		if err != nil {
			return nil, err
		}
		if cited == nil {
			g.Log().Warningf(ctx, "grounding violation persisted after regeneration, degrading to canned answer")
			return x.Canned(language), nil
		}
	}

	if mode == schema.ModeShort {
		answer = truncateAtSentence(answer, x.shortModeMaxRunes)
	}

	sources := make([]*schema.Source, 0, len(cited))
	for _, idx := range cited {
		p := passages[idx-1]
		sources = append(sources, &schema.Source{
			Title:   p.SourceTitle,
			URL:     p.SourceURL,
			Excerpt: excerpt(p.Content),
		})
	}

	return &schema.GenerationResult{
		AnswerText:  answer,
		SourcesUsed: sources,
	}, nil
}

// generateOnce runs one model call plus the grounding check. cited is nil on
// a grounding violation; otherwise it holds the 1-based passage indices the
// answer used, in first-citation order.
func (x *Generator) generateOnce(ctx context.Context, queryText string, passages []*schema.RankedPassage, language schema.Language, profile *schema.UserProfile, mode schema.Mode, maxTokens int, strict bool) (answer string, cited []int, err error) {
	prompt := buildPrompt(queryText, passages, language, profile, mode, strict)

	raw, err := x.llm.GenerateText(ctx, prompt, language, maxTokens)
	if err != nil {
		return "", nil, err
	}

	matches := citationPattern.FindAllStringSubmatch(raw, -1)
	seen := map[int]bool{}
	for _, m := range matches {
		idx, convErr := strconv.Atoi(m[1])
		if convErr != nil || idx < 1 || idx > len(passages) {
			return "", nil, nil // unsupplied source claimed
		}
		if !seen[idx] {
			seen[idx] = true
			cited = append(cited, idx)
		}
	}

	// Markers are for verification, not for the user.
	answer = strings.TrimSpace(citationPattern.ReplaceAllString(raw, ""))
	if answer == "" {
		return "", nil, errors.New(errors.ErrGenerationFailed, "model returned empty answer")
	}

	if len(cited) == 0 {
		// No explicit citations: the prompt restricts the model to the
		// supplied passages, so attribute the top-ranked one.
		cited = []int{1}
	}
	return answer, cited, nil
}

// Canned returns the fixed "no verified information" answer in the target
// language. The disclaimer is appended by the finalizing stage.
func (x *Generator) Canned(language schema.Language) *schema.GenerationResult {
	return &schema.GenerationResult{
		AnswerText:  common.GetCannedNoInformation(language),
		SourcesUsed: []*schema.Source{},
	}
}

// sentence terminators for both scripts
var sentenceEnds = []rune{'।', '.', '!', '?', '\n'}

// truncateAtSentence cuts text to at most maxRunes, preferring the last
// complete sentence inside the budget.
func truncateAtSentence(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	cut := maxRunes
	for i := maxRunes - 1; i > maxRunes/2; i-- {
		if isSentenceEnd(runes[i]) {
			cut = i + 1
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut]))
}

func isSentenceEnd(r rune) bool {
	for _, e := range sentenceEnds {
		if r == e {
			return true
		}
	}
	return false
}

// excerpt shortens passage content for the source list.
func excerpt(content string) string {
	const maxExcerpt = 200
	runes := []rune(content)
	if len(runes) <= maxExcerpt {
		return content
	}
	return string(runes[:maxExcerpt]) + "…"
}
