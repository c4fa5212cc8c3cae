package janani

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	v1 "github.com/janani-health/janani/api/janani/v1"
	"github.com/janani-health/janani/internal/service"
	"github.com/janani-health/janani/pkg/schema"
)

// Query 问答接口
func (c *ControllerV1) Query(ctx context.Context, req *v1.QueryReq) (res *v1.QueryRes, err error) {
	g.Log().Infof(ctx, "Query request received - UserID: %s, Language: %s, Mode: %s",
		req.UserID, req.Language, req.Mode)

	query := &schema.Query{
		UserID: req.UserID,
		Text:   req.Question,
		Mode:   schema.Mode(req.Mode),
	}
	if req.Language != "" && req.Language != string(schema.LanguageAuto) {
		query.ExplicitLanguage = schema.Language(req.Language)
	}

	resp, err := service.GetOrchestrator().Process(ctx, query)
	if err != nil {
		return nil, err
	}

	return &v1.QueryRes{
		Answer:            resp.Answer,
		Sources:           resp.Sources,
		Language:          string(resp.Language),
		SafetyAlert:       resp.SafetyAlert,
		AudioURL:          resp.AudioURL,
		LanguageUncertain: resp.LanguageUncertain,
		Degraded:          resp.Degraded,
	}, nil
}
