package gorm

import (
	"time"
)

// Profile 用户画像表
type Profile struct {
	ID                uint64     `gorm:"primaryKey;column:id;type:bigint"`
	UserID            string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null"` // 业务ID
	PreferredLanguage string     `gorm:"column:preferred_language;type:varchar(16)"`           // hindi / english
	Trimester         string     `gorm:"column:trimester;type:varchar(16)"`                    // first / second / third
	LowBandwidth      bool       `gorm:"column:low_bandwidth"`
	VoiceMode         bool       `gorm:"column:voice_mode"`
	LastInteraction   *time.Time `gorm:"column:last_interaction"`
	QueryCount        int64      `gorm:"column:query_count;default:0"`
	CreateTime        *time.Time `gorm:"column:create_time"`
}

// TableName 设置表名
func (Profile) TableName() string {
	return "profiles"
}
