package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Setting keys.
const (
	KeyDetectionEnabled = "detection_enabled"
	KeyCameraDevice     = "camera_device"
)

// GetSetting returns the value for key, or the fallback when the key has
// never been set.
func (s *Store) GetSetting(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores the value for key, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// DetectionEnabled reports the persisted detection toggle, defaulting to
// enabled.
func (s *Store) DetectionEnabled() (bool, error) {
	v, err := s.GetSetting(KeyDetectionEnabled, "true")
	if err != nil {
		return true, err
	}
	return v == "true", nil
}

// SetDetectionEnabled persists the detection toggle.
func (s *Store) SetDetectionEnabled(enabled bool) error {
	return s.SetSetting(KeyDetectionEnabled, strconv.FormatBool(enabled))
}

// CameraDevice returns the persisted camera device override, or the
// fallback when none has been saved.
func (s *Store) CameraDevice(fallback int) (int, error) {
	v, err := s.GetSetting(KeyCameraDevice, strconv.Itoa(fallback))
	if err != nil {
		return fallback, err
	}
	device, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("parse camera device %q: %w", v, err)
	}
	return device, nil
}

// SetCameraDevice persists the camera device override.
func (s *Store) SetCameraDevice(device int) error {
	return s.SetSetting(KeyCameraDevice, strconv.Itoa(device))
}
