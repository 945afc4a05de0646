// Package coordinator owns the live layout of a window and routes UI intents
// through the layout use cases.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/lexgrid/internal/application/port"
	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

const defaultResizeStepPercent = 5.0

// WorkspaceCoordinator holds the current layout value. Every committed change
// is diffed against the previous layout so the language collaborator only
// hears about files entering or leaving the workspace.
type WorkspaceCoordinator struct {
	panesUC  *usecase.ManagePanesUseCase
	tabsUC   *usecase.ManageTabsUseCase
	resizer  *usecase.ResizeController
	language port.LanguageIntelligence

	windowStateID string
	stepPercent   float64

	// commitMu serializes read-modify-write cycles and resize sessions; mu guards
	// the layout value and the resize step.
	commitMu sync.Mutex
	mu       sync.RWMutex
	layout   entity.Layout

	onStateChanged func()
}

// WorkspaceCoordinatorConfig holds configuration for WorkspaceCoordinator.
type WorkspaceCoordinatorConfig struct {
	PanesUC           *usecase.ManagePanesUseCase
	TabsUC            *usecase.ManageTabsUseCase
	Resizer           *usecase.ResizeController
	Language          port.LanguageIntelligence
	WindowStateID     string
	ResizeStepPercent float64
	Initial           entity.Layout
}

var _ port.LayoutProvider = (*WorkspaceCoordinator)(nil)

// NewWorkspaceCoordinator creates a coordinator showing cfg.Initial. Files of the
// initial layout are announced to the language collaborator.
func NewWorkspaceCoordinator(ctx context.Context, cfg WorkspaceCoordinatorConfig) *WorkspaceCoordinator {
	ctx = logging.WithComponent(ctx, "coordinator")
	log := logging.FromContext(ctx)
	log.Debug().Str("window_state_id", cfg.WindowStateID).Msg("creating workspace coordinator")

	step := cfg.ResizeStepPercent
	if step <= 0 {
		step = defaultResizeStepPercent
	}
	c := &WorkspaceCoordinator{
		panesUC:       cfg.PanesUC,
		tabsUC:        cfg.TabsUC,
		resizer:       cfg.Resizer,
		language:      cfg.Language,
		windowStateID: cfg.WindowStateID,
		stepPercent:   step,
	}
	c.syncDocuments(ctx, entity.Layout{}, cfg.Initial)
	c.layout = cfg.Initial
	return c
}

// SetOnStateChanged sets the callback invoked after every committed change.
func (c *WorkspaceCoordinator) SetOnStateChanged(fn func()) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.onStateChanged = fn
}

// CurrentLayout returns a copy of the committed layout.
func (c *WorkspaceCoordinator) CurrentLayout() entity.Layout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.Clone()
}

// WindowStateID returns the settings scope of this window.
func (c *WorkspaceCoordinator) WindowStateID() string {
	return c.windowStateID
}

// Replace swaps in a whole layout, e.g. after restore or reset.
func (c *WorkspaceCoordinator) Replace(ctx context.Context, l entity.Layout) entity.Layout {
	return c.apply(ctx, func(entity.Layout) entity.Layout { return l })
}

// SplitVertical adds a pane to the right of paneID and returns its id.
func (c *WorkspaceCoordinator) SplitVertical(ctx context.Context, paneID entity.PaneID) entity.PaneID {
	var newID entity.PaneID
	c.apply(ctx, func(l entity.Layout) entity.Layout {
		out := c.panesUC.SplitVertical(ctx, l, paneID)
		newID = out.NewPaneID
		return out.Layout
	})
	return newID
}

// SplitHorizontal adds a row below the row holding paneID and returns the new pane id.
func (c *WorkspaceCoordinator) SplitHorizontal(ctx context.Context, paneID entity.PaneID) entity.PaneID {
	var newID entity.PaneID
	c.apply(ctx, func(l entity.Layout) entity.Layout {
		out := c.panesUC.SplitHorizontal(ctx, l, paneID)
		newID = out.NewPaneID
		return out.Layout
	})
	return newID
}

// ClosePane closes paneID. Closing the only pane is ignored.
func (c *WorkspaceCoordinator) ClosePane(ctx context.Context, paneID entity.PaneID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.panesUC.ClosePane(ctx, l, paneID)
	})
}

// FocusPane makes paneID active.
func (c *WorkspaceCoordinator) FocusPane(ctx context.Context, paneID entity.PaneID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.panesUC.Focus(ctx, l, paneID)
	})
}

// FocusPaneN focuses the n-th pane (zero-based) in visual order.
func (c *WorkspaceCoordinator) FocusPaneN(ctx context.Context, n int) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.panesUC.FocusIndex(ctx, l, n)
	})
}

// OpenFile opens path in paneID, or in the active pane when paneID is empty.
func (c *WorkspaceCoordinator) OpenFile(ctx context.Context, path string, paneID entity.PaneID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.OpenFile(ctx, l, path, paneID)
	})
}

// OpenPreview shows rendered html for sourcePath in paneID.
func (c *WorkspaceCoordinator) OpenPreview(ctx context.Context, sourcePath, html string, paneID entity.PaneID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.OpenPreview(ctx, l, sourcePath, html, paneID)
	})
}

// CloseTab removes a tab, closing its pane when it was the last one.
func (c *WorkspaceCoordinator) CloseTab(ctx context.Context, paneID entity.PaneID, tabID entity.TabID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.CloseTab(ctx, l, paneID, tabID)
	})
}

// ActivateTab selects tabID in paneID and focuses the pane.
func (c *WorkspaceCoordinator) ActivateTab(ctx context.Context, paneID entity.PaneID, tabID entity.TabID) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.ActivateTab(ctx, l, paneID, tabID)
	})
}

// UpdateCursor records the editor cursor of paneID.
func (c *WorkspaceCoordinator) UpdateCursor(ctx context.Context, paneID entity.PaneID, path string, line int) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.UpdateCursor(ctx, l, paneID, path, line)
	})
}

// MoveTab moves or duplicates a tab into another pane.
func (c *WorkspaceCoordinator) MoveTab(ctx context.Context, input usecase.MoveTabInput) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		return c.tabsUC.MoveTab(ctx, l, input)
	})
}

// Drop handles a JSON drag payload released over targetPaneID.
func (c *WorkspaceCoordinator) Drop(ctx context.Context, payload []byte, targetPaneID entity.PaneID) (entity.Layout, error) {
	var p usecase.TabDragPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return c.CurrentLayout(), fmt.Errorf("decode drag payload: %w", err)
	}
	return c.MoveTab(ctx, usecase.MoveInputFromPayload(p, targetPaneID)), nil
}

// NextTab activates the tab after the current one in visual order, wrapping around.
func (c *WorkspaceCoordinator) NextTab(ctx context.Context) entity.Layout {
	return c.cycleTab(ctx, 1)
}

// PrevTab activates the tab before the current one in visual order, wrapping around.
func (c *WorkspaceCoordinator) PrevTab(ctx context.Context) entity.Layout {
	return c.cycleTab(ctx, -1)
}

func (c *WorkspaceCoordinator) cycleTab(ctx context.Context, step int) entity.Layout {
	return c.apply(ctx, func(l entity.Layout) entity.Layout {
		refs := entity.VisualTabOrder(l)
		if len(refs) == 0 {
			return l
		}
		current := -1
		if pane, ok := l.ActivePane(); ok {
			current = slices.Index(refs, entity.TabRef{PaneID: pane.ID, TabID: pane.ActiveTabID})
		}
		var next int
		switch {
		case current >= 0:
			next = (current + step + len(refs)) % len(refs)
		case step < 0:
			next = len(refs) - 1
		}
		return c.tabsUC.ActivateTab(ctx, l, refs[next].PaneID, refs[next].TabID)
	})
}

// BeginRowResize starts dragging the divider below upperRowID.
func (c *WorkspaceCoordinator) BeginRowResize(ctx context.Context, upperRowID entity.RowID, anchor, extent float64) error {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.resizer.BeginRowResize(ctx, c.CurrentLayout(), upperRowID, anchor, extent)
}

// BeginPaneResize starts dragging the divider right of leftPaneID.
func (c *WorkspaceCoordinator) BeginPaneResize(ctx context.Context, rowID entity.RowID, leftPaneID entity.PaneID, anchor, extent float64) error {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.resizer.BeginPaneResize(ctx, c.CurrentLayout(), rowID, leftPaneID, anchor, extent)
}

// ResizeMove applies a pointer position to the open resize session.
func (c *WorkspaceCoordinator) ResizeMove(ctx context.Context, pointer float64) (entity.Layout, error) {
	return c.applyErr(ctx, func(l entity.Layout) (entity.Layout, error) {
		return c.resizer.Move(ctx, l, pointer)
	})
}

// PointerUp ends the resize session.
func (c *WorkspaceCoordinator) PointerUp(ctx context.Context) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.resizer.PointerUp(ctx)
}

// FocusLost ends the resize session when the window loses focus.
func (c *WorkspaceCoordinator) FocusLost(ctx context.Context) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.resizer.FocusLost(ctx)
}

// Resizing reports whether a drag is in progress.
func (c *WorkspaceCoordinator) Resizing() bool {
	return c.resizer.Active()
}

// SetResizeStepPercent changes the keyboard resize step. Non-positive values
// restore the default.
func (c *WorkspaceCoordinator) SetResizeStepPercent(step float64) {
	if step <= 0 {
		step = defaultResizeStepPercent
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepPercent = step
}

// ResizeStepPercent returns the keyboard resize step.
func (c *WorkspaceCoordinator) ResizeStepPercent() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stepPercent
}

// Nudge grows (positive sign) or shrinks the active pane by the configured step.
func (c *WorkspaceCoordinator) Nudge(ctx context.Context, axis usecase.ResizeAxis, sign int) (entity.Layout, error) {
	step := c.ResizeStepPercent()
	if sign < 0 {
		step = -step
	}
	return c.applyErr(ctx, func(l entity.Layout) (entity.Layout, error) {
		return c.resizer.Nudge(ctx, l, l.ActivePaneID, axis, step)
	})
}

func (c *WorkspaceCoordinator) apply(ctx context.Context, fn func(entity.Layout) entity.Layout) entity.Layout {
	next, _ := c.applyErr(ctx, func(l entity.Layout) (entity.Layout, error) {
		return fn(l), nil
	})
	return next
}

// applyErr runs fn on the current layout and commits the result unless fn fails.
func (c *WorkspaceCoordinator) applyErr(ctx context.Context, fn func(entity.Layout) (entity.Layout, error)) (entity.Layout, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.RLock()
	prev := c.layout
	c.mu.RUnlock()

	next, err := fn(prev)
	if err != nil {
		return prev.Clone(), err
	}

	c.mu.Lock()
	c.layout = next
	c.mu.Unlock()

	c.syncDocuments(ctx, prev, next)
	if c.onStateChanged != nil {
		c.onStateChanged()
	}
	return next.Clone(), nil
}

// syncDocuments announces files that appeared in or disappeared from the workspace.
// Failures are logged; the layout change stands.
func (c *WorkspaceCoordinator) syncDocuments(ctx context.Context, prev, next entity.Layout) {
	if c.language == nil {
		return
	}
	log := logging.FromContext(ctx)
	before := prev.OpenFilePaths()
	after := next.OpenFilePaths()

	for _, path := range sortedDiff(before, after) {
		if err := c.language.NotifyClosed(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("language server didClose failed")
		}
	}
	for _, path := range sortedDiff(after, before) {
		if err := c.language.NotifyOpened(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("language server didOpen failed")
		}
	}
}

// sortedDiff returns the keys of a missing from b, sorted.
func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
