package schema

// Severity 安全告警级别
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// SafetyAlert carries the escalation shown to the user when a query or
// answer indicates a possible emergency.
type SafetyAlert struct {
	Severity          Severity `json:"severity"`
	Message           string   `json:"message"`
	EmergencyContacts []string `json:"emergency_contacts"`
}

// SafetyAssessment is derived per request and never persisted with raw
// diagnostic text; only anonymized risk buckets may be logged.
type SafetyAssessment struct {
	// RiskScore in [0,1].
	RiskScore float64      `json:"risk_score"`
	Alert     *SafetyAlert `json:"alert,omitempty"`
	// KeywordHit 命中内置高危词表
	KeywordHit bool `json:"keyword_hit,omitempty"`
}

// RiskBucket maps the score to a coarse bucket safe for logging.
func (a *SafetyAssessment) RiskBucket() string {
	switch {
	case a == nil:
		return "none"
	case a.Alert != nil && a.Alert.Severity == SeverityHigh:
		return "high"
	case a.Alert != nil && a.Alert.Severity == SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}
