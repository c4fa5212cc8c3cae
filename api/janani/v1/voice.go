package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/pkg/schema"
)

// VoiceQueryReq carries a spoken question. Audio is base64-encoded; clips
// from the IVR gateway are a few hundred KB at most.
type VoiceQueryReq struct {
	g.Meta      `path:"/v1/query/voice" method:"post" tags:"query"`
	UserID      string `json:"user_id" v:"required"`
	AudioBase64 string `json:"audio_base64" v:"required"`
	Language    string `json:"language"` // hindi/english/auto (default auto)
}

type VoiceQueryRes struct {
	g.Meta      `mime:"application/json"`
	Question    string              `json:"question"` // transcribed text, echoed for confirmation
	Answer      string              `json:"answer"`
	Sources     []*schema.Source    `json:"sources"`
	Language    string              `json:"language"`
	SafetyAlert *schema.SafetyAlert `json:"safety_alert,omitempty"`
	AudioURL    string              `json:"audio_url,omitempty"`
	Degraded    bool                `json:"degraded,omitempty"`
}
