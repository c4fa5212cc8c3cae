package schema

// Language 服务支持的语言（受限枚举）
// The router guarantees every request resolves to exactly one of these.
type Language string

const (
	LanguageHindi   Language = "hindi"
	LanguageEnglish Language = "english"
	// LanguageAuto is only valid on the request boundary; it never leaves the router.
	LanguageAuto Language = "auto"
)

// Valid reports whether l is a routable language value.
func (l Language) Valid() bool {
	return l == LanguageHindi || l == LanguageEnglish || l == LanguageAuto
}

// Mode 回答模式
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeShort    Mode = "short"
	ModeVoice    Mode = "voice"
)

// Valid reports whether m is a known answer mode.
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeShort || m == ModeVoice
}

// Query is the immutable user question entering the pipeline.
type Query struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	// ExplicitLanguage is empty unless the caller forced a language.
	ExplicitLanguage Language `json:"explicit_language,omitempty"`
	Mode             Mode     `json:"mode"`
}

// QueryResponse is the orchestration boundary response.
type QueryResponse struct {
	Answer      string       `json:"answer"`
	Sources     []*Source    `json:"sources"`
	Language    Language     `json:"language"`
	SafetyAlert *SafetyAlert `json:"safety_alert,omitempty"`
	AudioURL    string       `json:"audio_url,omitempty"`
	// LanguageUncertain is set when script analysis and the fallback
	// classifier both failed and the router defaulted to English.
	LanguageUncertain bool `json:"language_uncertain,omitempty"`
	// Degraded marks a response produced through a fallback path.
	Degraded bool `json:"degraded,omitempty"`
}
