package store

import (
	"database/sql"

	"github.com/skanderbk/tartil/internal/domain"
)

// Setting keys
const (
	SettingActiveReciter = "active_reciter"
)

func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.DB.Get(&value, `SELECT value FROM settings WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &domain.StorageError{Op: "get setting", Err: err}
	}
	return value, nil
}

func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return &domain.StorageError{Op: "set setting", Err: err}
	}
	return nil
}
