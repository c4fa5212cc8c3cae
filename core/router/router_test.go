package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janani-health/janani/pkg/schema"
)

type fakeClassifier struct {
	language schema.Language
	err      error
	calls    int
}

func (f *fakeClassifier) ClassifyLanguage(ctx context.Context, text string) (schema.Language, error) {
	f.calls++
	return f.language, f.err
}

// TestRouteExplicitLanguage 显式语言优先于一切
func TestRouteExplicitLanguage(t *testing.T) {
	r := New(nil)

	query := &schema.Query{Text: "बच्चे को क्या खिलाएं", ExplicitLanguage: schema.LanguageEnglish}
	lang, uncertain := r.Route(context.Background(), query, nil)

	assert.Equal(t, schema.LanguageEnglish, lang)
	assert.False(t, uncertain)
}

// TestRouteScriptAnalysis 文字系统占比判定
func TestRouteScriptAnalysis(t *testing.T) {
	r := New(nil)

	cases := []struct {
		name string
		text string
		want schema.Language
	}{
		{"纯天城文", "गर्भावस्था में क्या खाना चाहिए", schema.LanguageHindi},
		{"纯拉丁文", "what should I eat during pregnancy", schema.LanguageEnglish},
		{"天城文占多数", "pregnancy में क्या खाना चाहिए और क्या नहीं खाना चाहिए", schema.LanguageHindi},
		{"数字和标点不计入", "9 महीने में वजन 60kg!", schema.LanguageHindi},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lang, uncertain := r.Route(context.Background(), &schema.Query{Text: tc.text}, nil)
			assert.Equal(t, tc.want, lang)
			assert.False(t, uncertain)
		})
	}
}

// TestRouteProfilePreference 混合文本时使用用户偏好
func TestRouteProfilePreference(t *testing.T) {
	classifier := &fakeClassifier{language: schema.LanguageEnglish}
	r := New(classifier)

	// 各占一半，脚本分析不出结论
	mixed := "dawai दवाई कब लेनी है kab"
	profile := &schema.UserProfile{UserID: "u1", PreferredLanguage: schema.LanguageHindi}

	lang, uncertain := r.Route(context.Background(), &schema.Query{Text: mixed}, profile)

	assert.Equal(t, schema.LanguageHindi, lang)
	assert.False(t, uncertain)
	assert.Zero(t, classifier.calls, "分类器不应被调用")
}

// TestRouteClassifierFallback 无偏好时调用外部分类器
func TestRouteClassifierFallback(t *testing.T) {
	t.Run("分类器成功", func(t *testing.T) {
		classifier := &fakeClassifier{language: schema.LanguageHindi}
		r := New(classifier)

		lang, uncertain := r.Route(context.Background(), &schema.Query{Text: "dawai दवाई कब लेनी है kab"}, nil)

		assert.Equal(t, schema.LanguageHindi, lang)
		assert.False(t, uncertain)
		assert.Equal(t, 1, classifier.calls)
	})

	t.Run("分类器失败默认英语", func(t *testing.T) {
		classifier := &fakeClassifier{err: fmt.Errorf("service down")}
		r := New(classifier)

		lang, uncertain := r.Route(context.Background(), &schema.Query{Text: "dawai दवाई कब लेनी है kab"}, nil)

		assert.Equal(t, schema.LanguageEnglish, lang)
		assert.True(t, uncertain)
	})

	t.Run("无分类器默认英语", func(t *testing.T) {
		r := New(nil)

		lang, uncertain := r.Route(context.Background(), &schema.Query{Text: "dawai दवाई कब लेनी है kab"}, nil)

		assert.Equal(t, schema.LanguageEnglish, lang)
		assert.True(t, uncertain)
	})
}

// TestRouteEmptyText 空文本走默认路径
func TestRouteEmptyText(t *testing.T) {
	r := New(nil)

	lang, uncertain := r.Route(context.Background(), &schema.Query{Text: "   "}, nil)

	assert.Equal(t, schema.LanguageEnglish, lang)
	assert.True(t, uncertain)
}
