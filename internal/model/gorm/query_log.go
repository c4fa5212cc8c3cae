package gorm

import (
	"time"
)

// QueryLog 查询审计表。Stores the query fingerprint, never the text.
type QueryLog struct {
	ID             uint64     `gorm:"primaryKey;column:id;type:bigint"`
	RequestID      string     `gorm:"column:request_id;type:varchar(64);index"`
	UserID         string     `gorm:"column:user_id;type:varchar(64);index;not null"`
	QueryHash      string     `gorm:"column:query_hash;type:varchar(64);index"`
	Language       string     `gorm:"column:language;type:varchar(16)"`
	Mode           string     `gorm:"column:mode;type:varchar(16)"`
	State          string     `gorm:"column:state;type:varchar(16)"` // complete / degraded / failed
	Degraded       bool       `gorm:"column:degraded"`
	PassageCount   int        `gorm:"column:passage_count"`
	SafetySeverity string     `gorm:"column:safety_severity;type:varchar(16)"`
	LatencyMs      int64      `gorm:"column:latency_ms"`
	CreateTime     *time.Time `gorm:"column:create_time"`
}

// TableName 设置表名
func (QueryLog) TableName() string {
	return "query_logs"
}
