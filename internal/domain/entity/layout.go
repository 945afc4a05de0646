package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is wrapped by every Validate failure.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout is the (panes, rows, activePaneID) triple describing one window's workspace.
// It is treated as an immutable value: operations return a new Layout and callers
// swap their copy atomically.
type Layout struct {
	Panes        []Pane // Canonical pane list
	Rows         []Row  // Top-to-bottom
	ActivePaneID PaneID
}

// NewDefaultLayout returns the single-pane, single-row layout used when nothing was saved.
func NewDefaultLayout(paneID PaneID, rowID RowID) Layout {
	return Layout{
		Panes:        []Pane{NewPane(paneID)},
		Rows:         []Row{NewRow(rowID, DefaultRowTotal, paneID)},
		ActivePaneID: paneID,
	}
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	clone := Layout{ActivePaneID: l.ActivePaneID}
	if l.Panes != nil {
		clone.Panes = make([]Pane, len(l.Panes))
		for i, p := range l.Panes {
			clone.Panes[i] = p.Clone()
		}
	}
	if l.Rows != nil {
		clone.Rows = make([]Row, len(l.Rows))
		for i, r := range l.Rows {
			clone.Rows[i] = r.Clone()
		}
	}
	return clone
}

// PaneIndex returns the position of the pane in the canonical list, or -1.
func (l Layout) PaneIndex(id PaneID) int {
	for i, p := range l.Panes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FindPane returns the pane with the given ID.
func (l Layout) FindPane(id PaneID) (Pane, bool) {
	if idx := l.PaneIndex(id); idx >= 0 {
		return l.Panes[idx], true
	}
	return Pane{}, false
}

// HasPane reports whether a pane with the given ID exists.
func (l Layout) HasPane(id PaneID) bool {
	return l.PaneIndex(id) >= 0
}

// RowIndexOf returns the index of the row containing paneID, or -1.
func (l Layout) RowIndexOf(paneID PaneID) int {
	for i, r := range l.Rows {
		if r.Contains(paneID) {
			return i
		}
	}
	return -1
}

// RowIndex returns the index of the row with the given ID, or -1.
func (l Layout) RowIndex(id RowID) int {
	for i, r := range l.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ActivePane returns the active pane, if it resolves.
func (l Layout) ActivePane() (Pane, bool) {
	return l.FindPane(l.ActivePaneID)
}

// PaneCount returns the number of panes.
func (l Layout) PaneCount() int {
	return len(l.Panes)
}

// TotalRowSize returns the summed size of all rows.
func (l Layout) TotalRowSize() float64 {
	total := 0.0
	for _, r := range l.Rows {
		total += r.Size
	}
	return total
}

// OpenFilePaths returns the set of file paths shown by any pane.
func (l Layout) OpenFilePaths() map[string]struct{} {
	paths := make(map[string]struct{})
	for _, p := range l.Panes {
		for _, path := range p.FilePaths() {
			paths[path] = struct{}{}
		}
	}
	return paths
}

// Validate checks the layout invariants: unique pane membership, non-empty rows,
// weights at or above the floor, normalized rows and a resolvable active pane.
func (l Layout) Validate() error {
	if len(l.Panes) == 0 {
		return fmt.Errorf("%w: no panes", ErrInvalidLayout)
	}

	seenPanes := make(map[PaneID]struct{}, len(l.Panes))
	for _, p := range l.Panes {
		if _, dup := seenPanes[p.ID]; dup {
			return fmt.Errorf("%w: duplicate pane %s", ErrInvalidLayout, p.ID)
		}
		seenPanes[p.ID] = struct{}{}
		if p.ActiveTabID != "" && p.TabIndex(p.ActiveTabID) < 0 {
			return fmt.Errorf("%w: pane %s active tab %s not found", ErrInvalidLayout, p.ID, p.ActiveTabID)
		}
		if p.CursorLine < 0 {
			return fmt.Errorf("%w: pane %s negative cursor line", ErrInvalidLayout, p.ID)
		}
	}

	placed := make(map[PaneID]RowID, len(l.Panes))
	for _, r := range l.Rows {
		if len(r.PaneIDs) == 0 {
			return fmt.Errorf("%w: row %s is empty", ErrInvalidLayout, r.ID)
		}
		if r.Size < MinWeight-weightEpsilon {
			return fmt.Errorf("%w: row %s size %.4f below floor", ErrInvalidLayout, r.ID, r.Size)
		}
		for _, id := range r.PaneIDs {
			if _, ok := seenPanes[id]; !ok {
				return fmt.Errorf("%w: row %s references unknown pane %s", ErrInvalidLayout, r.ID, id)
			}
			if other, dup := placed[id]; dup {
				return fmt.Errorf("%w: pane %s in rows %s and %s", ErrInvalidLayout, id, other, r.ID)
			}
			placed[id] = r.ID
			if w := r.PaneWeight(id); w < MinWeight-weightEpsilon {
				return fmt.Errorf("%w: pane %s weight %.4f below floor", ErrInvalidLayout, id, w)
			}
		}
		if !r.IsNormalized() {
			return fmt.Errorf("%w: row %s weights not normalized", ErrInvalidLayout, r.ID)
		}
	}
	for _, p := range l.Panes {
		if _, ok := placed[p.ID]; !ok {
			return fmt.Errorf("%w: pane %s is in no row", ErrInvalidLayout, p.ID)
		}
	}

	if !l.HasPane(l.ActivePaneID) {
		return fmt.Errorf("%w: active pane %q does not resolve", ErrInvalidLayout, l.ActivePaneID)
	}
	return nil
}
