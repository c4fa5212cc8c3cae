package generate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janani-health/janani/core/common"
	"github.com/janani-health/janani/pkg/schema"
)

type fakeLLM struct {
	// answers are returned in order; the last one repeats.
	answers []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, language schema.Language, maxTokens int) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.answers) {
		idx = len(f.answers) - 1
	}
	return f.answers[idx], nil
}

func ranked(docIDs ...string) []*schema.RankedPassage {
	out := make([]*schema.RankedPassage, len(docIDs))
	for i, id := range docIDs {
		out[i] = &schema.RankedPassage{
			Passage: schema.Passage{
				DocID:       id,
				Content:     "passage content " + id,
				SourceTitle: "title " + id,
				SourceURL:   "https://example.org/" + id,
			},
			Rank: i + 1,
		}
	}
	return out
}

// TestGenerateCannedOnEmptyPassages 无候选段落时不调用模型
func TestGenerateCannedOnEmptyPassages(t *testing.T) {
	llm := &fakeLLM{answers: []string{"should not be used"}}
	gen := New(llm, 400)

	result, err := gen.Generate(context.Background(), "q", nil, schema.LanguageHindi, nil, schema.ModeStandard)

	require.NoError(t, err)
	assert.Zero(t, llm.calls, "模型不应被调用")
	assert.Equal(t, common.GetCannedNoInformation(schema.LanguageHindi), result.AnswerText)
	assert.Empty(t, result.SourcesUsed)
}

// TestGenerateCitations 引用提取与标记清理
func TestGenerateCitations(t *testing.T) {
	llm := &fakeLLM{answers: []string{"Iron helps the baby grow. [S2] Eat green vegetables daily. [S1]"}}
	gen := New(llm, 400)

	result, err := gen.Generate(context.Background(), "q", ranked("a", "b"), schema.LanguageEnglish, nil, schema.ModeStandard)

	require.NoError(t, err)
	assert.NotContains(t, result.AnswerText, "[S")
	require.Len(t, result.SourcesUsed, 2)
	// 按首次引用顺序
	assert.Equal(t, "title b", result.SourcesUsed[0].Title)
	assert.Equal(t, "title a", result.SourcesUsed[1].Title)
}

// TestGenerateGroundingViolation 引用越界触发严格重试
func TestGenerateGroundingViolation(t *testing.T) {
	t.Run("重试成功", func(t *testing.T) {
		llm := &fakeLLM{answers: []string{
			"Made up fact. [S7]",
			"Grounded answer. [S1]",
		}}
		gen := New(llm, 400)

		result, err := gen.Generate(context.Background(), "q", ranked("a", "b"), schema.LanguageEnglish, nil, schema.ModeStandard)

		require.NoError(t, err)
		assert.Equal(t, 2, llm.calls)
		assert.Contains(t, llm.prompts[1], "previous answer cited sources")
		assert.Equal(t, "Grounded answer.", result.AnswerText)
	})

	t.Run("重试仍越界降级为兜底回答", func(t *testing.T) {
		llm := &fakeLLM{answers: []string{"Bad. [S9]", "Still bad. [S0]"}}
		gen := New(llm, 400)

		result, err := gen.Generate(context.Background(), "q", ranked("a"), schema.LanguageEnglish, nil, schema.ModeStandard)

		require.NoError(t, err)
		assert.Equal(t, 2, llm.calls)
		assert.Equal(t, common.GetCannedNoInformation(schema.LanguageEnglish), result.AnswerText)
		assert.Empty(t, result.SourcesUsed)
	})
}

// TestGenerateNoCitations 无显式引用时归因到首位段落
func TestGenerateNoCitations(t *testing.T) {
	llm := &fakeLLM{answers: []string{"A plain answer without markers."}}
	gen := New(llm, 400)

	result, err := gen.Generate(context.Background(), "q", ranked("a", "b"), schema.LanguageEnglish, nil, schema.ModeStandard)

	require.NoError(t, err)
	require.Len(t, result.SourcesUsed, 1)
	assert.Equal(t, "title a", result.SourcesUsed[0].Title)
}

// TestGenerateModelError 模型错误向上传递
func TestGenerateModelError(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("upstream 500")}
	gen := New(llm, 400)

	_, err := gen.Generate(context.Background(), "q", ranked("a"), schema.LanguageEnglish, nil, schema.ModeStandard)
	assert.Error(t, err)
}

// TestGenerateShortMode 短模式长度上限
func TestGenerateShortMode(t *testing.T) {
	long := strings.Repeat("One more sentence here. ", 60)
	llm := &fakeLLM{answers: []string{long + " [S1]"}}
	gen := New(llm, 400)

	result, err := gen.Generate(context.Background(), "q", ranked("a"), schema.LanguageEnglish, nil, schema.ModeShort)

	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(result.AnswerText)), 400)
	// 在句子边界截断
	assert.True(t, strings.HasSuffix(result.AnswerText, "."))
}

// TestBuildPromptModes 提示词按模式变化
func TestBuildPromptModes(t *testing.T) {
	passages := ranked("a")
	profile := &schema.UserProfile{Trimester: schema.TrimesterSecond}

	standard := buildPrompt("q", passages, schema.LanguageHindi, profile, schema.ModeStandard, false)
	short := buildPrompt("q", passages, schema.LanguageHindi, profile, schema.ModeShort, false)
	strict := buildPrompt("q", passages, schema.LanguageHindi, profile, schema.ModeStandard, true)

	assert.Contains(t, standard, "Answer in Hindi")
	assert.Contains(t, standard, "second trimester")
	assert.Contains(t, short, "at most three simple sentences")
	assert.Contains(t, strict, "previous answer cited sources")
	assert.Contains(t, standard, "[S1] passage content a")
}

// TestTruncateAtSentence 多语句截断
func TestTruncateAtSentence(t *testing.T) {
	t.Run("短文本原样返回", func(t *testing.T) {
		assert.Equal(t, "ok.", truncateAtSentence("ok.", 10))
	})

	t.Run("天城文句号", func(t *testing.T) {
		text := "पहला वाक्य।दूसरा वाक्य।तीसरा वाक्य बहुत लंबा है और कटेगा"
		out := truncateAtSentence(text, 25)
		assert.True(t, strings.HasSuffix(out, "।"))
		assert.LessOrEqual(t, len([]rune(out)), 25)
	})
}
