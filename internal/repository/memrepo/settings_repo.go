package memrepo

import "context"

type SettingsRepository struct {
	conn *Conn
}

func NewSettingsRepository(conn *Conn) *SettingsRepository {
	return &SettingsRepository{conn: conn}
}

func (r *SettingsRepository) GetSetting(_ context.Context, key string) (string, error) {
	defer r.conn.lock()()
	v, ok := r.conn.store.settings[key]
	if !ok {
		return "", notFound("GetSetting", key)
	}
	return v, nil
}

func (r *SettingsRepository) SetSetting(_ context.Context, key, value string) error {
	defer r.conn.lock()()
	r.conn.store.settings[key] = value
	return nil
}
