package schema

import "time"

// UserProfile is the cached, time-bounded copy of the stored profile held by
// the orchestrator. The profile store owns the durable record.
type UserProfile struct {
	UserID            string    `json:"user_id"`
	PreferredLanguage Language  `json:"preferred_language,omitempty"`
	Trimester         Trimester `json:"trimester,omitempty"`
	LowBandwidth      bool      `json:"low_bandwidth"`
	VoiceMode         bool      `json:"voice_mode"`
	LastInteraction   time.Time `json:"last_interaction"`
	QueryCount        int64     `json:"query_count"`
}

// Copy returns an independent copy so cached entries stay immutable.
func (p *UserProfile) Copy() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
