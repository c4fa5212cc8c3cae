package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type ProfileGetReq struct {
	g.Meta `path:"/v1/profile/{user_id}" method:"get" tags:"profile"`
	UserID string `json:"user_id" in:"path" v:"required"`
}

type ProfileGetRes struct {
	g.Meta            `mime:"application/json"`
	UserID            string `json:"user_id"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
	Trimester         string `json:"trimester,omitempty"`
	LowBandwidth      bool   `json:"low_bandwidth"`
	VoiceMode         bool   `json:"voice_mode"`
	LastInteraction   string `json:"last_interaction,omitempty"`
	QueryCount        int64  `json:"query_count"`
}

type ProfileUpdateReq struct {
	g.Meta            `path:"/v1/profile/{user_id}" method:"put" tags:"profile"`
	UserID            string `json:"user_id" in:"path" v:"required"`
	PreferredLanguage string `json:"preferred_language" v:"in:,hindi,english"`
	Trimester         string `json:"trimester" v:"in:,first,second,third"`
	LowBandwidth      *bool  `json:"low_bandwidth"`
	VoiceMode         *bool  `json:"voice_mode"`
}

type ProfileUpdateRes struct {
	g.Meta `mime:"application/json"`
}

// ProfileDeleteReq removes the profile, every query log row and every stored
// audio clip for the user.
type ProfileDeleteReq struct {
	g.Meta `path:"/v1/profile/{user_id}" method:"delete" tags:"profile"`
	UserID string `json:"user_id" in:"path" v:"required"`
}

type ProfileDeleteRes struct {
	g.Meta `mime:"application/json"`
}
