package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Setting keys understood by the session.
const (
	KeyPadding           = "padding"
	KeyGestureConfidence = "gesture_confidence"
	KeyInteractive       = "interactive"
)

// ErrUnknownSetting is returned for keys outside the known set.
var ErrUnknownSetting = errors.New("unknown setting")

// ErrInvalidSetting is returned when a value does not parse or is out of
// range for its key.
var ErrInvalidSetting = errors.New("invalid setting value")

// KnownSetting reports whether key is one of the setting keys.
func KnownSetting(key string) bool {
	switch key {
	case KeyPadding, KeyGestureConfidence, KeyInteractive:
		return true
	}
	return false
}

// CheckSetting validates a value for key.
func CheckSetting(key, value string) error {
	switch key {
	case KeyPadding:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
		}
	case KeyGestureConfidence:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || v > 10 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
		}
	case KeyInteractive:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return nil
}

// SettingsRepository reads and writes key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored for key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// Float returns the value for key parsed as a float, or def when unset.
func (r *SettingsRepository) Float(key string, def float64) (float64, error) {
	value, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
	}
	return v, nil
}

// Bool returns the value for key parsed as a bool, or def when unset.
func (r *SettingsRepository) Bool(key string, def bool) (bool, error) {
	value, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, value)
	}
	return v, nil
}

// Set validates and stores value for key.
func (r *SettingsRepository) Set(key, value string) error {
	if err := CheckSetting(key, value); err != nil {
		return err
	}
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key, restoring its configured default.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
