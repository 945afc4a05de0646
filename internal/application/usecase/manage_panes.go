package usecase

import (
	"context"
	"slices"

	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

// ManagePanesUseCase handles pane grid operations.
// Every operation takes a layout value and returns a new one; the input is never modified.
type ManagePanesUseCase struct {
	idGenerator IDGenerator
}

// NewManagePanesUseCase creates a new pane management use case.
func NewManagePanesUseCase(idGenerator IDGenerator) *ManagePanesUseCase {
	return &ManagePanesUseCase{
		idGenerator: idGenerator,
	}
}

// SplitOutput contains the result of a split operation.
type SplitOutput struct {
	Layout    entity.Layout
	NewPaneID entity.PaneID // Also the new active pane
}

// SplitVertical inserts a new empty pane right after paneID in its row.
// Both panes share the split pane's former weight.
func (uc *ManagePanesUseCase) SplitVertical(ctx context.Context, l entity.Layout, paneID entity.PaneID) SplitOutput {
	log := logging.FromContext(logging.WithPaneID(ctx, string(paneID)))

	out := entity.Repair(l, uc.idGenerator)
	newID := entity.PaneID(uc.idGenerator())
	out.Panes = append(out.Panes, entity.NewPane(newID))

	ri := out.RowIndexOf(paneID)
	if ri < 0 {
		appendStandaloneRow(&out, newID, uc.idGenerator)
	} else {
		row := out.Rows[ri]
		idx := row.IndexOf(paneID)
		half := max(row.PaneWeight(paneID)/2, entity.MinWeight)
		row.PaneSizes[paneID] = half
		row.PaneSizes[newID] = half
		row.PaneIDs = slices.Insert(row.PaneIDs, idx+1, newID)
		out.Rows[ri] = row.Normalize()
	}
	out.ActivePaneID = newID

	log.Info().
		Str("new_pane_id", string(newID)).
		Int("rows", len(out.Rows)).
		Msg("pane split vertically")

	return SplitOutput{Layout: out, NewPaneID: newID}
}

// SplitHorizontal inserts a new row holding only a new empty pane right after the row
// containing paneID. The two rows share the former row size.
func (uc *ManagePanesUseCase) SplitHorizontal(ctx context.Context, l entity.Layout, paneID entity.PaneID) SplitOutput {
	log := logging.FromContext(logging.WithPaneID(ctx, string(paneID)))

	out := entity.Repair(l, uc.idGenerator)
	newID := entity.PaneID(uc.idGenerator())
	out.Panes = append(out.Panes, entity.NewPane(newID))

	ri := out.RowIndexOf(paneID)
	if ri < 0 {
		appendStandaloneRow(&out, newID, uc.idGenerator)
	} else {
		total := out.TotalRowSize()
		half := out.Rows[ri].Size / 2
		out.Rows[ri].Size = half
		newRow := entity.NewRow(entity.RowID(uc.idGenerator()), half, newID)
		out.Rows = slices.Insert(out.Rows, ri+1, newRow)
		out.Rows = entity.RebalanceRowSizes(out.Rows, total)
	}
	out.ActivePaneID = newID

	log.Info().
		Str("new_pane_id", string(newID)).
		Int("rows", len(out.Rows)).
		Msg("pane split horizontally")

	return SplitOutput{Layout: out, NewPaneID: newID}
}

// ClosePane removes a pane. Closing the only pane is a no-op.
// A row left empty is deleted and its size is donated to the row now at the same
// index (the last row when it was last), so the summed row size is unchanged.
func (uc *ManagePanesUseCase) ClosePane(ctx context.Context, l entity.Layout, paneID entity.PaneID) entity.Layout {
	log := logging.FromContext(logging.WithPaneID(ctx, string(paneID)))

	out := entity.Repair(l, uc.idGenerator)
	if !removePane(&out, paneID) {
		log.Debug().Msg("close pane ignored")
		return out
	}

	log.Info().
		Str("active_pane_id", string(out.ActivePaneID)).
		Msg("pane closed")
	return out
}

// Focus makes paneID the active pane. Unknown panes leave the layout unchanged.
func (uc *ManagePanesUseCase) Focus(ctx context.Context, l entity.Layout, paneID entity.PaneID) entity.Layout {
	out := entity.Repair(l, uc.idGenerator)
	if out.HasPane(paneID) {
		out.ActivePaneID = paneID
	}
	logging.FromContext(ctx).Debug().Str("pane_id", string(out.ActivePaneID)).Msg("pane focused")
	return out
}

// FocusIndex focuses the n-th pane (0-based) in visual order.
func (uc *ManagePanesUseCase) FocusIndex(ctx context.Context, l entity.Layout, n int) entity.Layout {
	out := entity.Repair(l, uc.idGenerator)
	order := entity.VisualPaneOrder(out)
	if n < 0 || n >= len(order) {
		return out
	}
	return uc.Focus(ctx, out, order[n])
}

// removePane deletes paneID from a repaired layout in place.
// It reports false when the pane is unknown or is the last one.
func removePane(l *entity.Layout, paneID entity.PaneID) bool {
	pi := l.PaneIndex(paneID)
	if pi < 0 || len(l.Panes) <= 1 {
		return false
	}
	l.Panes = slices.Delete(slices.Clone(l.Panes), pi, pi+1)

	if ri := l.RowIndexOf(paneID); ri >= 0 {
		row := l.Rows[ri].Clone()
		row.PaneIDs = slices.DeleteFunc(row.PaneIDs, func(id entity.PaneID) bool { return id == paneID })
		delete(row.PaneSizes, paneID)

		if len(row.PaneIDs) == 0 {
			freed := row.Size
			l.Rows = slices.Delete(slices.Clone(l.Rows), ri, ri+1)
			target := min(ri, len(l.Rows)-1)
			l.Rows[target].Size += freed
		} else {
			l.Rows[ri] = row.Normalize()
		}
	}

	if l.ActivePaneID == paneID || !l.HasPane(l.ActivePaneID) {
		l.ActivePaneID = l.Panes[0].ID
	}
	return true
}

// appendStandaloneRow adds a row holding only paneID at the bottom. The new row takes
// an average row share and the other rows shrink proportionally to keep the total.
func appendStandaloneRow(l *entity.Layout, paneID entity.PaneID, idGen IDGenerator) {
	if len(l.Rows) == 0 {
		l.Rows = []entity.Row{entity.NewRow(entity.RowID(idGen()), entity.DefaultRowTotal, paneID)}
		return
	}
	total := l.TotalRowSize()
	size := total / float64(len(l.Rows))
	l.Rows = append(l.Rows, entity.NewRow(entity.RowID(idGen()), size, paneID))
	l.Rows = entity.RebalanceRowSizes(l.Rows, total)
}
