package safety

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janani-health/janani/pkg/schema"
)

type fakeSeverityScorer struct {
	score float64
	err   error
	calls int
}

func (f *fakeSeverityScorer) ClassifySeverity(ctx context.Context, text string) (float64, error) {
	f.calls++
	return f.score, f.err
}

func newTestClassifier(scorer SeverityScorer, sample float64) *Classifier {
	c := NewClassifier(scorer, 0.70, 0.40, 0.10)
	c.sample = func() float64 { return sample }
	return c
}

// TestClassifyKeywordHit 高危短语必定产生高危告警
func TestClassifyKeywordHit(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"英语", "I have severe bleeding since morning"},
		{"天城文", "मुझे तेज़ रक्तस्राव हो रहा है"},
		{"罗马化印地语", "bahut khoon beh raha hai"},
		{"大小写不敏感", "SEVERE BLEEDING wont stop"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// 模型打分低也不能压过关键词下限
			scorer := &fakeSeverityScorer{score: 0.1}
			c := newTestClassifier(scorer, 0.99)

			a := c.Classify(context.Background(), tc.text, "", schema.LanguageEnglish)

			assert.True(t, a.KeywordHit)
			require.NotNil(t, a.Alert)
			assert.Equal(t, schema.SeverityHigh, a.Alert.Severity)
			assert.NotEmpty(t, a.Alert.Message)
			assert.NotEmpty(t, a.Alert.EmergencyContacts)
			assert.GreaterOrEqual(t, a.RiskScore, 0.70)
		})
	}
}

// TestClassifyModelScore 模型分数映射到告警级别
func TestClassifyModelScore(t *testing.T) {
	t.Run("中危", func(t *testing.T) {
		scorer := &fakeSeverityScorer{score: 0.55}
		c := newTestClassifier(scorer, 0.99)

		// 观察词触发模型打分，但不抬高下限
		a := c.Classify(context.Background(), "mujhe sujan hai", "", schema.LanguageHindi)

		assert.False(t, a.KeywordHit)
		require.NotNil(t, a.Alert)
		assert.Equal(t, schema.SeverityMedium, a.Alert.Severity)
	})

	t.Run("低分无告警", func(t *testing.T) {
		scorer := &fakeSeverityScorer{score: 0.2}
		c := newTestClassifier(scorer, 0.99)

		a := c.Classify(context.Background(), "thoda sa chakkar aya", "", schema.LanguageHindi)

		assert.Nil(t, a.Alert)
		assert.Equal(t, 1, scorer.calls)
	})
}

// TestClassifyFailSafe 打分器故障时保守降级为中危
func TestClassifyFailSafe(t *testing.T) {
	scorer := &fakeSeverityScorer{err: fmt.Errorf("timeout")}
	c := newTestClassifier(scorer, 0.99)

	a := c.Classify(context.Background(), "mujhe bukhar hai", "", schema.LanguageHindi)

	require.NotNil(t, a.Alert)
	assert.Equal(t, schema.SeverityMedium, a.Alert.Severity)
}

// TestClassifySampling 无命中时按采样率送检
func TestClassifySampling(t *testing.T) {
	t.Run("落入采样窗口", func(t *testing.T) {
		scorer := &fakeSeverityScorer{score: 0.1}
		c := newTestClassifier(scorer, 0.05) // 0.05 < 0.10

		a := c.Classify(context.Background(), "what fruits are good in pregnancy", "", schema.LanguageEnglish)

		assert.Equal(t, 1, scorer.calls)
		assert.Nil(t, a.Alert)
	})

	t.Run("未落入采样窗口", func(t *testing.T) {
		scorer := &fakeSeverityScorer{score: 0.9}
		c := newTestClassifier(scorer, 0.99) // 0.99 >= 0.10

		a := c.Classify(context.Background(), "what fruits are good in pregnancy", "", schema.LanguageEnglish)

		assert.Zero(t, scorer.calls)
		assert.Nil(t, a.Alert)
	})
}

// TestClassifyNilScorer 无模型时关键词阶段仍然有效
func TestClassifyNilScorer(t *testing.T) {
	c := newTestClassifier(nil, 0.99)

	a := c.Classify(context.Background(), "baby not moving since yesterday", "", schema.LanguageEnglish)

	require.NotNil(t, a.Alert)
	assert.Equal(t, schema.SeverityHigh, a.Alert.Severity)
}

// TestClassifyRiskScoreBounds 风险分数始终在 [0,1]
func TestClassifyRiskScoreBounds(t *testing.T) {
	for _, score := range []float64{0, 0.3, 0.7, 1.0} {
		scorer := &fakeSeverityScorer{score: score}
		c := newTestClassifier(scorer, 0.05)

		a := c.Classify(context.Background(), "regular question", "", schema.LanguageEnglish)
		assert.GreaterOrEqual(t, a.RiskScore, 0.0)
		assert.LessOrEqual(t, a.RiskScore, 1.0)
	}
}

// TestClassifyAnswerTextScreened 回答文本也参与关键词筛查
func TestClassifyAnswerTextScreened(t *testing.T) {
	c := newTestClassifier(nil, 0.99)

	a := c.Classify(context.Background(), "is this normal", "If you notice severe bleeding, seek help", schema.LanguageEnglish)

	assert.True(t, a.KeywordHit)
	require.NotNil(t, a.Alert)
}
