package dao

import (
	"context"
	"time"

	"github.com/gogf/gf/v2/frame/g"

	gormModel "github.com/janani-health/janani/internal/model/gorm"
	"github.com/janani-health/janani/pkg/schema"
)

// QueryLogDAO 查询审计数据访问对象
type QueryLogDAO struct{}

var QueryLog = &QueryLogDAO{}

// LogQuery 写入一条审计记录
func (d *QueryLogDAO) LogQuery(ctx context.Context, entry *schema.QueryLogEntry) error {
	now := entry.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	row := &gormModel.QueryLog{
		RequestID:      entry.RequestID,
		UserID:         entry.UserID,
		QueryHash:      entry.QueryHash,
		Language:       string(entry.Language),
		Mode:           string(entry.Mode),
		State:          entry.State,
		Degraded:       entry.Degraded,
		PassageCount:   entry.PassageCount,
		SafetySeverity: entry.SafetySeverity,
		LatencyMs:      entry.LatencyMs,
		CreateTime:     &now,
	}
	if err := GetDB().WithContext(ctx).Create(row).Error; err != nil {
		g.Log().Errorf(ctx, "写入查询审计记录失败: %v", err)
		return err
	}
	return nil
}
