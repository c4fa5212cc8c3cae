package dao

import (
	"context"
	"time"

	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/gorm"

	gormModel "github.com/janani-health/janani/internal/model/gorm"
	"github.com/janani-health/janani/pkg/schema"
)

// ProfileDAO 用户画像数据访问对象
type ProfileDAO struct{}

var Profile = &ProfileDAO{}

// Get returns the profile for userID, or (nil, nil) when none exists.
func (d *ProfileDAO) Get(ctx context.Context, userID string) (*schema.UserProfile, error) {
	var row gormModel.Profile
	if err := GetDB().WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		g.Log().Errorf(ctx, "查询用户画像失败: %v", err)
		return nil, err
	}
	return toSchemaProfile(&row), nil
}

// Put upserts the profile keyed by user_id.
func (d *ProfileDAO) Put(ctx context.Context, profile *schema.UserProfile) error {
	db := GetDB().WithContext(ctx)

	var existing gormModel.Profile
	err := db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		g.Log().Errorf(ctx, "查询用户画像失败: %v", err)
		return err
	}

	row := toGormProfile(profile)
	if err == gorm.ErrRecordNotFound {
		now := time.Now()
		row.CreateTime = &now
		if err := db.Create(row).Error; err != nil {
			g.Log().Errorf(ctx, "创建用户画像失败: %v", err)
			return err
		}
		return nil
	}

	row.ID = existing.ID
	row.CreateTime = existing.CreateTime
	if err := db.Save(row).Error; err != nil {
		g.Log().Errorf(ctx, "更新用户画像失败: %v", err)
		return err
	}
	return nil
}

// Delete removes the profile and every query log for the user in one
// transaction. Partial purges would leave orphaned audit rows, so this is
// all-or-nothing.
func (d *ProfileDAO) Delete(ctx context.Context, userID string) error {
	err := GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&gormModel.QueryLog{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&gormModel.Profile{}).Error
	})
	if err != nil {
		g.Log().Errorf(ctx, "删除用户画像失败: %v", err)
		return err
	}
	return nil
}

func toSchemaProfile(row *gormModel.Profile) *schema.UserProfile {
	p := &schema.UserProfile{
		UserID:            row.UserID,
		PreferredLanguage: schema.Language(row.PreferredLanguage),
		Trimester:         schema.Trimester(row.Trimester),
		LowBandwidth:      row.LowBandwidth,
		VoiceMode:         row.VoiceMode,
		QueryCount:        row.QueryCount,
	}
	if row.LastInteraction != nil {
		p.LastInteraction = *row.LastInteraction
	}
	return p
}

func toGormProfile(p *schema.UserProfile) *gormModel.Profile {
	row := &gormModel.Profile{
		UserID:            p.UserID,
		PreferredLanguage: string(p.PreferredLanguage),
		Trimester:         string(p.Trimester),
		LowBandwidth:      p.LowBandwidth,
		VoiceMode:         p.VoiceMode,
		QueryCount:        p.QueryCount,
	}
	if !p.LastInteraction.IsZero() {
		t := p.LastInteraction
		row.LastInteraction = &t
	}
	return row
}
