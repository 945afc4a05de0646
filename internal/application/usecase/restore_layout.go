package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/domain/repository"
	"github.com/bnema/lexgrid/internal/logging"
)

// DefaultCheckWorkers bounds concurrent file existence checks during restore.
const DefaultCheckWorkers = 8

// RestoreLayoutUseCase loads a saved layout and hydrates it against the file system.
type RestoreLayoutUseCase struct {
	settings    repository.SettingsRepository
	fs          port.FileSystem
	idGenerator IDGenerator
	workers     int
}

// NewRestoreLayoutUseCase creates a new RestoreLayoutUseCase.
// workers <= 0 selects DefaultCheckWorkers.
func NewRestoreLayoutUseCase(
	settings repository.SettingsRepository,
	fs port.FileSystem,
	idGenerator IDGenerator,
	workers int,
) *RestoreLayoutUseCase {
	if workers <= 0 {
		workers = DefaultCheckWorkers
	}
	return &RestoreLayoutUseCase{
		settings:    settings,
		fs:          fs,
		idGenerator: idGenerator,
		workers:     workers,
	}
}

// RestoreLayoutInput contains the parameters for restoring a layout.
type RestoreLayoutInput struct {
	WindowStateID string
}

// RestoreLayoutOutput contains the hydrated layout.
type RestoreLayoutOutput struct {
	Layout      entity.Layout
	Restored    bool // False when the default layout was substituted
	DroppedTabs int  // Tabs whose file no longer exists
}

// Execute reads the saved layout. A missing or unreadable record yields the
// default layout rather than an error; only a missing window id fails.
func (uc *RestoreLayoutUseCase) Execute(ctx context.Context, input RestoreLayoutInput) (*RestoreLayoutOutput, error) {
	log := logging.FromContext(ctx)

	if input.WindowStateID == "" {
		return nil, ErrWindowStateIDRequired
	}

	record, err := uc.settings.Get(ctx, input.WindowStateID)
	if err != nil {
		log.Warn().Err(err).Str("window_state_id", input.WindowStateID).Msg("layout read failed, using default")
		return uc.fallback(), nil
	}

	state, err := entity.DecodeLayoutState(record)
	if err != nil {
		log.Warn().Err(err).Str("window_state_id", input.WindowStateID).Msg("layout decode failed, using default")
		return uc.fallback(), nil
	}
	if len(state.Panes) == 0 {
		log.Debug().Str("window_state_id", input.WindowStateID).Msg("no saved layout")
		return uc.fallback(), nil
	}

	exists, err := uc.checkPaths(ctx, state.Panes)
	if err != nil {
		log.Warn().Err(err).Msg("layout hydration cancelled, using default")
		return uc.fallback(), nil
	}

	layout := entity.Layout{ActivePaneID: state.ActivePaneID}
	dropped := 0
	for _, ps := range state.Panes {
		pane, n := uc.hydratePane(ps, exists)
		dropped += n
		layout.Panes = append(layout.Panes, pane)
	}

	for _, rs := range state.Rows {
		row := entity.Row{
			ID:        rs.ID,
			PaneIDs:   rs.PaneIDs,
			Size:      rs.Size,
			PaneSizes: make(map[entity.PaneID]float64, len(rs.PaneSizes)),
		}
		for id, w := range rs.PaneSizes {
			row.PaneSizes[id] = w
		}
		layout.Rows = append(layout.Rows, row)
	}

	layout = entity.Repair(layout, uc.idGenerator)
	// A lone pane gets an empty sibling; Repair places it in the first row.
	if layout.PaneCount() == 1 {
		layout.Panes = append(layout.Panes, entity.NewPane(entity.PaneID(uc.idGenerator())))
		layout = entity.Repair(layout, uc.idGenerator)
	}

	log.Info().
		Str("window_state_id", input.WindowStateID).
		Int("pane_count", len(layout.Panes)).
		Int("row_count", len(layout.Rows)).
		Int("dropped_tabs", dropped).
		Msg("layout restored")

	return &RestoreLayoutOutput{Layout: layout, Restored: true, DroppedTabs: dropped}, nil
}

func (uc *RestoreLayoutUseCase) fallback() *RestoreLayoutOutput {
	layout := entity.NewDefaultLayout(entity.PaneID(uc.idGenerator()), entity.RowID(uc.idGenerator()))
	return &RestoreLayoutOutput{Layout: layout}
}

// checkPaths runs one existence check per distinct path, at most uc.workers at a time.
// A failed check counts as missing.
func (uc *RestoreLayoutUseCase) checkPaths(ctx context.Context, panes []entity.PaneState) (map[string]bool, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, ps := range panes {
		for _, p := range ps.Tabs {
			if _, ok := seen[p]; ok || p == "" {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}

	log := logging.FromContext(ctx)
	exists := make(map[string]bool, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := uc.fs.Exists(gctx, path)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("existence check failed")
				ok = false
			}
			mu.Lock()
			exists[path] = ok
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return exists, nil
}

func (uc *RestoreLayoutUseCase) hydratePane(ps entity.PaneState, exists map[string]bool) (entity.Pane, int) {
	pane := entity.NewPane(ps.ID)
	pane.LastKnownFilePath = ps.LastFile
	pane.CursorLine = max(ps.CursorLine, 0)

	dropped := 0
	for _, path := range ps.Tabs {
		if !exists[path] {
			dropped++
			continue
		}
		if pane.TabIndexByPath(path) >= 0 {
			continue
		}
		pane.Tabs = append(pane.Tabs, entity.NewFileTab(entity.TabID(uc.idGenerator()), path))
	}

	if idx := pane.TabIndexByPath(ps.ActiveTab); ps.ActiveTab != "" && idx >= 0 {
		pane.ActiveTabID = pane.Tabs[idx].ID
	} else if len(pane.Tabs) > 0 {
		pane.ActiveTabID = pane.Tabs[0].ID
	}
	return pane, dropped
}
