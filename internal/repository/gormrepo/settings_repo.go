package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var m Setting
	if err := r.db.WithContext(ctx).Take(&m, "setting_key = ?", key).Error; err != nil {
		return "", convertErr(err, "GetSetting %s", key)
	}
	return m.Value, nil
}

func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&Setting{Key: key, Value: value}).Error
	return convertErr(err, "SetSetting %s", key)
}
