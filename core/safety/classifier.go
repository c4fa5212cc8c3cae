package safety

import (
	"context"
	"math/rand"
	"strings"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/common"
	"github.com/janani-health/janani/pkg/schema"
)

// SeverityScorer is the model-based risk scoring capability, stage two of
// the classifier.
type SeverityScorer interface {
	ClassifySeverity(ctx context.Context, text string) (float64, error)
}

// Classifier screens every exchange for medical emergencies. Stage one is a
// deterministic keyword match that never fails; stage two is model scoring,
// run on keyword hits and on a fixed-probability sample for coverage.
type Classifier struct {
	scorer SeverityScorer // may be nil: keyword stage still runs

	highThreshold   float64
	mediumThreshold float64
	sampleRate      float64

	// sample is injectable for deterministic tests.
	sample func() float64
}

// NewClassifier 创建安全分级器
func NewClassifier(scorer SeverityScorer, highThreshold, mediumThreshold, sampleRate float64) *Classifier {
	return &Classifier{
		scorer:          scorer,
		highThreshold:   highThreshold,
		mediumThreshold: mediumThreshold,
		sampleRate:      sampleRate,
		sample:          rand.Float64,
	}
}

// Classify assesses one exchange. It never returns an error: scorer failure
// is fail-safe and yields a medium-severity consultation recommendation.
// A bundled high-risk phrase always produces a high-severity alert.
func (c *Classifier) Classify(ctx context.Context, queryText, answerText string, language schema.Language) *schema.SafetyAssessment {
	combined := strings.ToLower(queryText + "\n" + answerText)

	keywordHit := matchAny(combined, highRiskPhrases)
	watchHit := matchAny(combined, watchPhrases)

	assessment := &schema.SafetyAssessment{
		RiskScore:  0.05,
		KeywordHit: keywordHit,
	}

	runScorer := keywordHit || watchHit || c.sample() < c.sampleRate
	if runScorer && c.scorer != nil {
		score, err := c.scorer.ClassifySeverity(ctx, queryText)
		if err != nil {
			// fail-safe: never silently drop the consultation recommendation
			g.Log().Errorf(ctx, "severity scorer failed, applying fail-safe medium severity: %v", err)
			assessment.RiskScore = c.mediumThreshold
		} else {
			assessment.RiskScore = score
		}
	}

	if keywordHit && assessment.RiskScore < c.highThreshold {
		// deterministic escalation floor for bundled emergency phrases
		assessment.RiskScore = c.highThreshold
	}

	switch {
	case assessment.RiskScore >= c.highThreshold:
		assessment.Alert = c.buildAlert(ctx, schema.SeverityHigh, language)
	case assessment.RiskScore >= c.mediumThreshold:
		assessment.Alert = c.buildAlert(ctx, schema.SeverityMedium, language)
	}

	return assessment
}

func (c *Classifier) buildAlert(ctx context.Context, severity schema.Severity, language schema.Language) *schema.SafetyAlert {
	return &schema.SafetyAlert{
		Severity:          severity,
		Message:           common.GetAlertMessage(language, severity),
		EmergencyContacts: common.GetEmergencyContacts(ctx),
	}
}

func matchAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
