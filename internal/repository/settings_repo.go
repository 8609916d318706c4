package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// SettingLateFeePerDay is the staff-configurable per-day late return rate.
const SettingLateFeePerDay = "late_fee_per_day"

type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(database *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: database}
}

// GetInt reads an integral setting, falling back to def when unset.
func (r *SettingsRepository) GetInt(key string, def int64) (int64, error) {
	var value string
	err := r.DB.QueryRow(`SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading setting %q: %w", key, err)
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %q is not an integer: %w", key, err)
	}
	return n, nil
}

func (r *SettingsRepository) SetInt(key string, value int64) error {
	_, err := r.DB.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, strconv.FormatInt(value, 10),
	)
	if err != nil {
		return fmt.Errorf("error writing setting %q: %w", key, err)
	}
	return nil
}
