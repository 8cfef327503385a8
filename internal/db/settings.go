package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// GetSettings returns the stored settings, or defaults when none were saved.
func (db *DB) GetSettings(ctx context.Context) (types.Settings, error) {
	var data []byte
	err := db.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.DefaultSettings(), nil
	}
	if err != nil {
		return types.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := types.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return types.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the stored settings.
func (db *DB) SaveSettings(ctx context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO settings (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = $1, updated_at = NOW()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
