package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/domain/repository"
	"github.com/bnema/lexgrid/internal/logging"
)

// ErrWindowStateIDRequired is returned when no settings scope is given.
var ErrWindowStateIDRequired = errors.New("window state id required")

// SaveLayoutUseCase writes a layout through the settings repository.
type SaveLayoutUseCase struct {
	settings    repository.SettingsRepository
	idGenerator IDGenerator
}

// NewSaveLayoutUseCase creates a new SaveLayoutUseCase.
func NewSaveLayoutUseCase(settings repository.SettingsRepository, idGenerator IDGenerator) *SaveLayoutUseCase {
	return &SaveLayoutUseCase{
		settings:    settings,
		idGenerator: idGenerator,
	}
}

// SaveLayoutInput contains the parameters for saving a layout.
type SaveLayoutInput struct {
	WindowStateID string
	Layout        entity.Layout
}

// Execute persists the layout under the window's settings scope.
// Saving the same logical layout twice writes identical bytes.
func (uc *SaveLayoutUseCase) Execute(ctx context.Context, input SaveLayoutInput) error {
	log := logging.FromContext(ctx)

	if input.WindowStateID == "" {
		return ErrWindowStateIDRequired
	}

	layout := entity.Repair(input.Layout, uc.idGenerator)
	record, err := entity.StateFromLayout(layout).Encode()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if err := uc.settings.Set(ctx, input.WindowStateID, key, record[key]); err != nil {
			return fmt.Errorf("save layout key %s: %w", key, err)
		}
	}

	log.Debug().
		Str("window_state_id", input.WindowStateID).
		Int("pane_count", len(layout.Panes)).
		Int("row_count", len(layout.Rows)).
		Msg("layout saved")
	return nil
}

// Reset overwrites the saved layout with the single-pane default and returns it.
func (uc *SaveLayoutUseCase) Reset(ctx context.Context, windowStateID string) (entity.Layout, error) {
	layout := entity.NewDefaultLayout(entity.PaneID(uc.idGenerator()), entity.RowID(uc.idGenerator()))
	if err := uc.Execute(ctx, SaveLayoutInput{WindowStateID: windowStateID, Layout: layout}); err != nil {
		return entity.Layout{}, fmt.Errorf("reset layout: %w", err)
	}
	logging.FromContext(ctx).Info().
		Str("window_state_id", windowStateID).
		Msg("layout reset to default")
	return layout, nil
}
