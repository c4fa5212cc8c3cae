package janani

import (
	"context"
	"encoding/base64"

	"github.com/gogf/gf/v2/frame/g"

	v1 "github.com/janani-health/janani/api/janani/v1"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/internal/service"
	"github.com/janani-health/janani/pkg/schema"
)

// VoiceQuery 语音问答接口：先转写，再走标准问答流程
func (c *ControllerV1) VoiceQuery(ctx context.Context, req *v1.VoiceQueryReq) (res *v1.VoiceQueryRes, err error) {
	client := service.GetVoiceClient()
	if client == nil {
		return nil, errors.New(errors.ErrVoiceTranscription, "voice is not configured on this deployment")
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil || len(audio) == 0 {
		return nil, errors.New(errors.ErrInvalidParameter, "audio payload is not valid base64")
	}

	language := schema.Language(req.Language)
	if language == "" {
		language = schema.LanguageAuto
	}

	// 转写失败请用户重说，不进入流水线
	question, err := client.Transcribe(ctx, audio, language)
	if err != nil {
		g.Log().Warningf(ctx, "transcription failed for user %s: %v", req.UserID, err)
		return nil, err
	}

	query := &schema.Query{
		UserID: req.UserID,
		Text:   question,
		Mode:   schema.ModeVoice,
	}
	if language == schema.LanguageHindi || language == schema.LanguageEnglish {
		query.ExplicitLanguage = language
	}

	resp, err := service.GetOrchestrator().Process(ctx, query)
	if err != nil {
		return nil, err
	}

	return &v1.VoiceQueryRes{
		Question:    question,
		Answer:      resp.Answer,
		Sources:     resp.Sources,
		Language:    string(resp.Language),
		SafetyAlert: resp.SafetyAlert,
		AudioURL:    resp.AudioURL,
		Degraded:    resp.Degraded,
	}, nil
}
