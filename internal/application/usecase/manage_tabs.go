package usecase

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

// previewPathPrefix marks the synthetic path of a preview tab.
const previewPathPrefix = "preview:"

// ManageTabsUseCase handles tab lifecycle operations inside panes.
type ManageTabsUseCase struct {
	idGenerator IDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator IDGenerator) *ManageTabsUseCase {
	return &ManageTabsUseCase{
		idGenerator: idGenerator,
	}
}

// TabDragPayload is handed from the drag source to the drop target.
// An empty SourcePaneID means the path was dropped from the file tree.
type TabDragPayload struct {
	TabPath      string        `json:"tabPath"`
	SourcePaneID entity.PaneID `json:"sourcePaneId,omitempty"`
	Duplicate    bool          `json:"duplicate"`
}

// MoveTabInput contains parameters for moving a tab between panes.
type MoveTabInput struct {
	TabPath      string
	SourcePaneID entity.PaneID
	TargetPaneID entity.PaneID
	Duplicate    bool
}

// MoveInputFromPayload builds a MoveTabInput for a drop onto targetPaneID.
func MoveInputFromPayload(p TabDragPayload, targetPaneID entity.PaneID) MoveTabInput {
	return MoveTabInput{
		TabPath:      p.TabPath,
		SourcePaneID: p.SourcePaneID,
		TargetPaneID: targetPaneID,
		Duplicate:    p.Duplicate,
	}
}

// CloseTab removes a tab from a pane. When the pane is left without tabs and
// other panes exist, the pane is closed as well.
func (uc *ManageTabsUseCase) CloseTab(ctx context.Context, l entity.Layout, paneID entity.PaneID, tabID entity.TabID) entity.Layout {
	log := logging.FromContext(logging.WithPaneID(ctx, string(paneID)))

	out := entity.Repair(l, uc.idGenerator)
	pi := out.PaneIndex(paneID)
	if pi < 0 {
		return out
	}
	idx := out.Panes[pi].TabIndex(tabID)
	if idx < 0 {
		return out
	}

	removed := removeTabAt(&out, pi, idx)

	log.Debug().
		Str("tab_id", string(removed.ID)).
		Str("path", removed.Path).
		Int("panes", len(out.Panes)).
		Msg("tab closed")

	return out
}

// MoveTab moves (or copies, when Duplicate is set) the tab showing TabPath into the
// target pane. A target that already shows the path just activates it.
func (uc *ManageTabsUseCase) MoveTab(ctx context.Context, l entity.Layout, input MoveTabInput) entity.Layout {
	log := logging.FromContext(ctx)

	out := entity.Repair(l, uc.idGenerator)
	ti := out.PaneIndex(input.TargetPaneID)
	if ti < 0 || input.TabPath == "" {
		log.Debug().
			Str("target_pane_id", string(input.TargetPaneID)).
			Msg("move tab ignored: unknown target")
		return out
	}

	target := &out.Panes[ti]
	if idx := target.TabIndexByPath(input.TabPath); idx >= 0 {
		target.ActiveTabID = target.Tabs[idx].ID
		out.ActivePaneID = target.ID
		return out
	}

	tab := entity.NewFileTab(entity.TabID(uc.idGenerator()), input.TabPath)
	var source entity.Tab
	si := out.PaneIndex(input.SourcePaneID)
	srcTab := -1
	if si >= 0 {
		srcTab = out.Panes[si].TabIndexByPath(input.TabPath)
	}
	if srcTab >= 0 {
		source = out.Panes[si].Tabs[srcTab]
		tab.Name = source.Name
		tab.Type = source.Type
		tab.PreviewHTML = source.PreviewHTML
		tab.SourcePath = source.SourcePath
	}

	target.Tabs = append(target.Tabs, tab)
	target.ActiveTabID = tab.ID
	if tab.Type == entity.TabFile {
		target.LastKnownFilePath = tab.Path
	}
	out.ActivePaneID = target.ID

	if !input.Duplicate && srcTab >= 0 {
		removeTabAt(&out, si, srcTab)
	}

	log.Info().
		Str("path", input.TabPath).
		Str("source_pane_id", string(input.SourcePaneID)).
		Str("target_pane_id", string(input.TargetPaneID)).
		Bool("duplicate", input.Duplicate).
		Int("panes", len(out.Panes)).
		Msg("tab moved")

	return out
}

// OpenFile shows path in paneID, activating an existing tab for the same path.
// An empty paneID targets the active pane. An unknown paneID opens the file in a
// new pane placed in a new row.
func (uc *ManageTabsUseCase) OpenFile(ctx context.Context, l entity.Layout, path string, paneID entity.PaneID) entity.Layout {
	log := logging.FromContext(ctx)

	out := entity.Repair(l, uc.idGenerator)
	if path == "" {
		return out
	}
	if paneID == "" {
		paneID = out.ActivePaneID
	}

	pi := out.PaneIndex(paneID)
	if pi < 0 {
		paneID = entity.PaneID(uc.idGenerator())
		out.Panes = append(out.Panes, entity.NewPane(paneID))
		appendStandaloneRow(&out, paneID, uc.idGenerator)
		pi = len(out.Panes) - 1
	}

	pane := &out.Panes[pi]
	if idx := pane.TabIndexByPath(path); idx >= 0 {
		pane.ActiveTabID = pane.Tabs[idx].ID
	} else {
		tab := entity.NewFileTab(entity.TabID(uc.idGenerator()), path)
		pane.Tabs = append(pane.Tabs, tab)
		pane.ActiveTabID = tab.ID
	}
	pane.LastKnownFilePath = path
	out.ActivePaneID = pane.ID

	log.Debug().
		Str("pane_id", string(pane.ID)).
		Str("path", path).
		Msg("file opened")

	return out
}

// OpenPreview shows rendered html for sourcePath in paneID. An existing preview of
// the same file is refreshed in place.
func (uc *ManageTabsUseCase) OpenPreview(ctx context.Context, l entity.Layout, sourcePath, html string, paneID entity.PaneID) entity.Layout {
	out := entity.Repair(l, uc.idGenerator)
	if sourcePath == "" {
		return out
	}
	if paneID == "" {
		paneID = out.ActivePaneID
	}
	pi := out.PaneIndex(paneID)
	if pi < 0 {
		return out
	}

	pane := &out.Panes[pi]
	path := previewPathPrefix + sourcePath
	if idx := pane.TabIndexByPath(path); idx >= 0 {
		pane.Tabs[idx].PreviewHTML = html
		pane.ActiveTabID = pane.Tabs[idx].ID
	} else {
		tab := entity.Tab{
			ID:          entity.TabID(uc.idGenerator()),
			Path:        path,
			Name:        "Preview " + filepath.Base(sourcePath),
			Type:        entity.TabPreview,
			PreviewHTML: html,
			SourcePath:  sourcePath,
		}
		pane.Tabs = append(pane.Tabs, tab)
		pane.ActiveTabID = tab.ID
	}
	out.ActivePaneID = pane.ID

	logging.FromContext(ctx).Debug().
		Str("pane_id", string(pane.ID)).
		Str("source_path", sourcePath).
		Int("html_bytes", len(html)).
		Msg("preview opened")

	return out
}

// ActivateTab selects tabID in paneID and focuses the pane.
func (uc *ManageTabsUseCase) ActivateTab(ctx context.Context, l entity.Layout, paneID entity.PaneID, tabID entity.TabID) entity.Layout {
	out := entity.Repair(l, uc.idGenerator)
	pi := out.PaneIndex(paneID)
	if pi < 0 {
		return out
	}
	pane := &out.Panes[pi]
	idx := pane.TabIndex(tabID)
	if idx < 0 {
		return out
	}
	pane.ActiveTabID = tabID
	if pane.Tabs[idx].Type == entity.TabFile {
		pane.LastKnownFilePath = pane.Tabs[idx].Path
	}
	out.ActivePaneID = paneID

	logging.FromContext(logging.WithPaneID(ctx, string(paneID))).Debug().
		Str("tab_id", string(tabID)).
		Msg("tab activated")
	return out
}

// UpdateCursor records the file and cursor line last seen in paneID.
// Negative lines are clamped to zero.
func (uc *ManageTabsUseCase) UpdateCursor(_ context.Context, l entity.Layout, paneID entity.PaneID, path string, line int) entity.Layout {
	out := entity.Repair(l, uc.idGenerator)
	pi := out.PaneIndex(paneID)
	if pi < 0 {
		return out
	}
	if path != "" {
		out.Panes[pi].LastKnownFilePath = path
	}
	out.Panes[pi].CursorLine = max(line, 0)
	return out
}

// removeTabAt removes the idx-th tab of the pi-th pane of a repaired layout and
// closes the pane when it is left empty and is not the last one.
func removeTabAt(l *entity.Layout, pi, idx int) entity.Tab {
	l.Panes = slices.Clone(l.Panes)
	pane := l.Panes[pi].Clone()
	removed := pane.RemoveTabAt(idx)
	l.Panes[pi] = pane

	if pane.IsEmpty() && len(l.Panes) > 1 {
		removePane(l, pane.ID)
	}
	return removed
}
