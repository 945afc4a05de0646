package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/domain/repository"
	"github.com/bnema/lexgrid/internal/logging"
)

const (
	getSettingsQuery = `SELECT key, value FROM window_settings WHERE window_state_id = ? ORDER BY key`
	setSettingQuery  = `INSERT INTO window_settings (window_state_id, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (window_state_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

type settingsRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSettingsRepository creates a settings repository backed by the window_settings table.
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepo{db: db, now: time.Now}
}

// Get returns every key stored for the window. An unknown window yields an empty record.
func (r *settingsRepo) Get(ctx context.Context, windowStateID string) (entity.SettingsRecord, error) {
	rows, err := r.db.QueryContext(ctx, getSettingsQuery, windowStateID)
	if err != nil {
		return nil, fmt.Errorf("query window settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	record := make(entity.SettingsRecord)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan window setting: %w", err)
		}
		record[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate window settings: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("window_state_id", windowStateID).
		Int("keys", len(record)).
		Msg("window settings loaded")
	return record, nil
}

// Set upserts one key of the window's record.
func (r *settingsRepo) Set(ctx context.Context, windowStateID, key string, value json.RawMessage) error {
	if windowStateID == "" || key == "" {
		return fmt.Errorf("window state id and key are required")
	}
	if !json.Valid(value) {
		return fmt.Errorf("setting %s: value is not valid JSON", key)
	}

	if _, err := r.db.ExecContext(ctx, setSettingQuery, windowStateID, key, string(value), r.now().UTC()); err != nil {
		return fmt.Errorf("upsert window setting %s: %w", key, err)
	}
	return nil
}
