package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const configKey = "config"

// LoadConfig returns the persisted configuration, or nil when none was saved.
func (s *Store) LoadConfig() (*AppConfig, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, configKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig persists the configuration wholesale.
func (s *Store) SaveConfig(cfg *AppConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		configKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// ResetConfig restores and persists the default configuration.
func (s *Store) ResetConfig() (*AppConfig, error) {
	cfg := DefaultConfig()
	if err := s.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
