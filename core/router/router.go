package router

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/pkg/schema"
)

// LanguageClassifier is the external language-detection capability used only
// when script analysis is inconclusive.
type LanguageClassifier interface {
	ClassifyLanguage(ctx context.Context, text string) (schema.Language, error)
}

// Router decides which language pipeline handles a query. The returned
// language is always exactly hindi or english; everything downstream is a
// pure function of that value.
type Router struct {
	classifier LanguageClassifier
}

// New 创建语言路由器。classifier may be nil; routing then skips straight to
// the English default when scripts are mixed and no profile preference exists.
func New(classifier LanguageClassifier) *Router {
	return &Router{classifier: classifier}
}

// Route resolves the response language for one query.
// Resolution order: explicit request language, profile preference on
// ambiguous script, script majority, external classifier, English default.
// uncertain is set only on the final default path.
func (r *Router) Route(ctx context.Context, query *schema.Query, profile *schema.UserProfile) (language schema.Language, uncertain bool) {
	if query.ExplicitLanguage == schema.LanguageHindi || query.ExplicitLanguage == schema.LanguageEnglish {
		return query.ExplicitLanguage, false
	}

	counts := countScripts(query.Text)
	if hindi, ok := counts.conclusive(); ok {
		if hindi {
			return schema.LanguageHindi, false
		}
		return schema.LanguageEnglish, false
	}

	// 文本混合或为空：先看用户偏好
	if profile != nil {
		if profile.PreferredLanguage == schema.LanguageHindi || profile.PreferredLanguage == schema.LanguageEnglish {
			return profile.PreferredLanguage, false
		}
	}

	if r.classifier != nil {
		lang, err := r.classifier.ClassifyLanguage(ctx, query.Text)
		if err == nil && (lang == schema.LanguageHindi || lang == schema.LanguageEnglish) {
			return lang, false
		}
		if err != nil {
			g.Log().Warningf(ctx, "language classifier failed, defaulting to english: %v", err)
		}
	}

	return schema.LanguageEnglish, true
}
