package v1

import (
	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/pkg/schema"
)

type QueryReq struct {
	g.Meta   `path:"/v1/query" method:"post" tags:"query"`
	UserID   string `json:"user_id" v:"required"`
	Question string `json:"question" v:"required"`
	Language string `json:"language"` // hindi/english/auto (default auto)
	Mode     string `json:"mode"`     // standard/short/voice (default standard)
}

type QueryRes struct {
	g.Meta            `mime:"application/json"`
	Answer            string              `json:"answer"`
	Sources           []*schema.Source    `json:"sources"`
	Language          string              `json:"language"`
	SafetyAlert       *schema.SafetyAlert `json:"safety_alert,omitempty"`
	AudioURL          string              `json:"audio_url,omitempty"`
	LanguageUncertain bool                `json:"language_uncertain,omitempty"`
	Degraded          bool                `json:"degraded,omitempty"`
}
