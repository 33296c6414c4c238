package pgrepo

import (
	"context"

	"github.com/fsdevblog/smsbroker/pkg/uow"
)

type SettingsRepository struct {
	conn uow.DBTX
}

func NewSettingsRepository(conn uow.DBTX) *SettingsRepository {
	return &SettingsRepository{conn: conn}
}

func (s *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.conn.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value); err != nil {
		return "", convertErr(err, "GetSetting %s", key)
	}
	return value, nil
}

func (s *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	return convertErr(err, "SetSetting %s", key)
}
