package repository

import (
	"context"
	"encoding/json"

	"github.com/bnema/lexgrid/internal/domain/entity"
)

// SettingsRepository is the per-window key/value settings store.
// Records are scoped by an opaque window-state ID.
type SettingsRepository interface {
	// Get returns every key stored for the window. A window with no saved
	// settings yields an empty record and no error.
	Get(ctx context.Context, windowStateID string) (entity.SettingsRecord, error)

	// Set stores value under key for the window, replacing any previous value.
	Set(ctx context.Context, windowStateID, key string, value json.RawMessage) error
}
