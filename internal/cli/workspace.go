package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/infrastructure/config"
	"github.com/bnema/lexgrid/internal/infrastructure/lsp"
	"github.com/bnema/lexgrid/internal/infrastructure/snapshot"
	"github.com/bnema/lexgrid/internal/logging"
	"github.com/bnema/lexgrid/internal/ui/coordinator"
)

// Workspace is a restored layout with persistence and language hooks attached.
type Workspace struct {
	Coord    *coordinator.WorkspaceCoordinator
	Restored *usecase.RestoreLayoutOutput

	snapshots *snapshot.Service
	notifier  *lsp.Notifier
}

// OpenWorkspace restores the window's layout and wires change tracking. With
// withLanguage the configured language server receives document events.
func (a *App) OpenWorkspace(ctx context.Context, withLanguage bool) (*Workspace, error) {
	restored, err := a.RestoreUC.Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: a.windowStateID})
	if err != nil {
		return nil, fmt.Errorf("restore layout: %w", err)
	}

	ws := &Workspace{Restored: restored}

	var language port.LanguageIntelligence = lsp.NopNotifier{}
	if withLanguage && a.Config.LanguageServer.Enabled() {
		ws.notifier = lsp.NewNotifier(lsp.Config{
			Command: a.Config.LanguageServer.Command,
			Args:    a.Config.LanguageServer.Args,
		}, a.Files)
		language = ws.notifier
	}

	ws.Coord = coordinator.NewWorkspaceCoordinator(ctx, coordinator.WorkspaceCoordinatorConfig{
		PanesUC:           a.PanesUC,
		TabsUC:            a.TabsUC,
		Resizer:           usecase.NewResizeController(a.IDs),
		Language:          language,
		WindowStateID:     a.windowStateID,
		ResizeStepPercent: a.Config.Workspace.ResizeStepPercent,
		Initial:           restored.Layout,
	})

	ws.snapshots = snapshot.NewService(a.SaveUC, ws.Coord, a.Config.Workspace.SnapshotIntervalMs)
	ws.snapshots.Start(ctx)
	ws.Coord.SetOnStateChanged(ws.snapshots.MarkDirty)
	if restored.DroppedTabs > 0 {
		ws.snapshots.MarkDirty()
	}

	logging.FromContext(ctx).Debug().
		Bool("restored", restored.Restored).
		Int("dropped_tabs", restored.DroppedTabs).
		Int("panes", len(restored.Layout.Panes)).
		Msg("workspace opened")
	return ws, nil
}

// ApplyConfig applies the settings that can change while the workspace is open:
// the keyboard resize step and the log level.
func (ws *Workspace) ApplyConfig(ctx context.Context, cfg *config.Config) {
	ws.Coord.SetResizeStepPercent(cfg.Workspace.ResizeStepPercent)
	level := logging.SetGlobalLevel(cfg.Logging.Level)

	logging.FromContext(ctx).Info().
		Float64("resize_step_percent", ws.Coord.ResizeStepPercent()).
		Str("log_level", level.String()).
		Msg("configuration reloaded")
}

// Close flushes pending layout changes and stops the language server.
func (ws *Workspace) Close(ctx context.Context) error {
	var errs []error
	if err := ws.snapshots.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("save layout: %w", err))
	}
	if ws.notifier != nil {
		if err := ws.notifier.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop language server: %w", err))
		}
	}
	return errors.Join(errs...)
}
