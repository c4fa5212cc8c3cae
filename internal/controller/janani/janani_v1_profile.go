package janani

import (
	"context"
	"time"

	"github.com/gogf/gf/v2/frame/g"

	v1 "github.com/janani-health/janani/api/janani/v1"
	"github.com/janani-health/janani/core/errors"
	"github.com/janani-health/janani/core/voice"
	"github.com/janani-health/janani/internal/service"
	"github.com/janani-health/janani/pkg/schema"
)

// ProfileGet 查询用户画像
func (c *ControllerV1) ProfileGet(ctx context.Context, req *v1.ProfileGetReq) (res *v1.ProfileGetRes, err error) {
	p, err := service.GetProfileCache().Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	res = &v1.ProfileGetRes{
		UserID:            p.UserID,
		PreferredLanguage: string(p.PreferredLanguage),
		Trimester:         string(p.Trimester),
		LowBandwidth:      p.LowBandwidth,
		VoiceMode:         p.VoiceMode,
		QueryCount:        p.QueryCount,
	}
	if !p.LastInteraction.IsZero() {
		res.LastInteraction = p.LastInteraction.Format(time.RFC3339)
	}
	return res, nil
}

// ProfileUpdate 更新用户画像偏好
func (c *ControllerV1) ProfileUpdate(ctx context.Context, req *v1.ProfileUpdateReq) (res *v1.ProfileUpdateRes, err error) {
	cache := service.GetProfileCache()
	p, err := cache.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.PreferredLanguage != "" {
		lang := schema.Language(req.PreferredLanguage)
		if lang != schema.LanguageHindi && lang != schema.LanguageEnglish {
			return nil, errors.Newf(errors.ErrInvalidParameter, "unsupported language %q", req.PreferredLanguage)
		}
		p.PreferredLanguage = lang
	}
	if req.Trimester != "" {
		p.Trimester = schema.Trimester(req.Trimester)
	}
	if req.LowBandwidth != nil {
		p.LowBandwidth = *req.LowBandwidth
	}
	if req.VoiceMode != nil {
		p.VoiceMode = *req.VoiceMode
	}

	if err := cache.Update(ctx, p); err != nil {
		return nil, err
	}
	return &v1.ProfileUpdateRes{}, nil
}

// ProfileDelete 删除用户画像及其全部查询记录与语音文件
func (c *ControllerV1) ProfileDelete(ctx context.Context, req *v1.ProfileDeleteReq) (res *v1.ProfileDeleteRes, err error) {
	g.Log().Infof(ctx, "Profile purge requested - UserID: %s", req.UserID)

	if err := service.GetProfileCache().Purge(ctx, req.UserID); err != nil {
		return nil, err
	}

	// 语音文件清理失败不回滚数据库删除，但必须让调用方知道
	if err := voice.PurgeUserAudio(ctx, req.UserID); err != nil {
		g.Log().Errorf(ctx, "audio purge failed for user %s: %v", req.UserID, err)
		return nil, err
	}
	return &v1.ProfileDeleteRes{}, nil
}
