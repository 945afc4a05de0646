package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

// ResizeAxis selects which sibling pair a resize acts on.
type ResizeAxis int

const (
	// AxisRows trades size between two adjacent rows (vertical drag).
	AxisRows ResizeAxis = iota
	// AxisPanes trades weight between two adjacent panes of one row (horizontal drag).
	AxisPanes
)

// String returns the axis name used in logs.
func (a ResizeAxis) String() string {
	if a == AxisPanes {
		return "panes"
	}
	return "rows"
}

// ResizeSession is the state captured when a drag starts.
// The pair sum stays constant for the whole session.
type ResizeSession struct {
	Axis         ResizeAxis
	RowID        entity.RowID  // Upper row (AxisRows) or containing row (AxisPanes)
	NextRowID    entity.RowID  // Lower row, AxisRows only
	PaneID       entity.PaneID // Left pane, AxisPanes only
	NextPaneID   entity.PaneID // Right pane, AxisPanes only
	Anchor       float64       // Pointer coordinate at drag start
	Extent       float64       // Container extent along the drag axis
	InitialFirst float64
	PairSum      float64
}

// weightFor returns the first member's weight for a pointer coordinate.
func (s ResizeSession) weightFor(pointer float64) float64 {
	delta := (pointer - s.Anchor) / s.Extent * s.PairSum
	return entity.ClampWeight(s.InitialFirst+delta, entity.MinWeight, s.PairSum-entity.MinWeight)
}

// ResizeController drives interactive resizing. At most one session is open at a
// time; starting a new one ends the previous. Safe for concurrent use.
type ResizeController struct {
	idGenerator IDGenerator

	mu      sync.Mutex
	session *ResizeSession
}

// NewResizeController creates a resize controller with no open session.
func NewResizeController(idGenerator IDGenerator) *ResizeController {
	return &ResizeController{idGenerator: idGenerator}
}

// Active reports whether a session is open.
func (c *ResizeController) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Session returns a copy of the open session.
func (c *ResizeController) Session() (ResizeSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ResizeSession{}, false
	}
	return *c.session, true
}

// BeginRowResize opens a session on the boundary below upperRowID.
// extent is the height of the row collection.
func (c *ResizeController) BeginRowResize(ctx context.Context, l entity.Layout, upperRowID entity.RowID, anchor, extent float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.end(ctx, "replaced")
	if extent <= 0 {
		return fmt.Errorf("begin row resize: container extent must be positive, got %v", extent)
	}

	out := entity.Repair(l, c.idGenerator)
	ri := out.RowIndex(upperRowID)
	if ri < 0 {
		return fmt.Errorf("begin row resize %s: %w", upperRowID, ErrRowNotFound)
	}
	if ri+1 >= len(out.Rows) {
		return fmt.Errorf("begin row resize %s: %w", upperRowID, ErrNothingToResize)
	}

	upper, lower := out.Rows[ri], out.Rows[ri+1]
	c.session = &ResizeSession{
		Axis:         AxisRows,
		RowID:        upper.ID,
		NextRowID:    lower.ID,
		Anchor:       anchor,
		Extent:       extent,
		InitialFirst: upper.Size,
		PairSum:      upper.Size + lower.Size,
	}

	logging.FromContext(ctx).Debug().
		Str("row_id", string(upper.ID)).
		Str("next_row_id", string(lower.ID)).
		Float64("pair_sum", c.session.PairSum).
		Msg("row resize started")
	return nil
}

// BeginPaneResize opens a session on the boundary right of leftPaneID inside rowID.
// extent is the width of the row.
func (c *ResizeController) BeginPaneResize(ctx context.Context, l entity.Layout, rowID entity.RowID, leftPaneID entity.PaneID, anchor, extent float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.end(ctx, "replaced")
	if extent <= 0 {
		return fmt.Errorf("begin pane resize: container extent must be positive, got %v", extent)
	}

	out := entity.Repair(l, c.idGenerator)
	ri := out.RowIndex(rowID)
	if ri < 0 {
		return fmt.Errorf("begin pane resize %s: %w", rowID, ErrRowNotFound)
	}
	row := out.Rows[ri]
	pi := row.IndexOf(leftPaneID)
	if pi < 0 {
		return fmt.Errorf("begin pane resize %s: %w", leftPaneID, ErrPaneNotFound)
	}
	if pi+1 >= len(row.PaneIDs) {
		return fmt.Errorf("begin pane resize %s: %w", leftPaneID, ErrNothingToResize)
	}

	right := row.PaneIDs[pi+1]
	first := row.PaneWeight(leftPaneID)
	c.session = &ResizeSession{
		Axis:         AxisPanes,
		RowID:        row.ID,
		PaneID:       leftPaneID,
		NextPaneID:   right,
		Anchor:       anchor,
		Extent:       extent,
		InitialFirst: first,
		PairSum:      first + row.PaneWeight(right),
	}

	logging.FromContext(ctx).Debug().
		Str("row_id", string(row.ID)).
		Str("pane_id", string(leftPaneID)).
		Str("next_pane_id", string(right)).
		Float64("pair_sum", c.session.PairSum).
		Msg("pane resize started")
	return nil
}

// Move applies a pointer position to the open session. Without a session the
// layout is returned unchanged together with ErrNoResizeSession.
func (c *ResizeController) Move(ctx context.Context, l entity.Layout, pointer float64) (entity.Layout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return l, ErrNoResizeSession
	}
	s := *c.session
	out := entity.Repair(l, c.idGenerator)
	first := s.weightFor(pointer)
	second := s.PairSum - first

	switch s.Axis {
	case AxisRows:
		ri, ni := out.RowIndex(s.RowID), out.RowIndex(s.NextRowID)
		if ri < 0 || ni < 0 {
			c.end(ctx, "row removed")
			return out, fmt.Errorf("resize rows: %w", ErrRowNotFound)
		}
		out.Rows[ri].Size = first
		out.Rows[ni].Size = second
	case AxisPanes:
		ri := out.RowIndex(s.RowID)
		if ri < 0 || !out.Rows[ri].Contains(s.PaneID) || !out.Rows[ri].Contains(s.NextPaneID) {
			c.end(ctx, "pane removed")
			return out, fmt.Errorf("resize panes: %w", ErrPaneNotFound)
		}
		out.Rows[ri].PaneSizes[s.PaneID] = first
		out.Rows[ri].PaneSizes[s.NextPaneID] = second
	}

	logging.FromContext(ctx).Trace().
		Str("axis", s.Axis.String()).
		Float64("first", first).
		Float64("second", second).
		Msg("resize moved")
	return out, nil
}

// PointerUp ends the open session.
func (c *ResizeController) PointerUp(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.end(ctx, "pointer up")
}

// FocusLost ends the open session when the window loses focus.
func (c *ResizeController) FocusLost(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.end(ctx, "focus lost")
}

// end closes the session. Called with c.mu held.
func (c *ResizeController) end(ctx context.Context, reason string) {
	if c.session == nil {
		return
	}
	logging.FromContext(ctx).Debug().
		Str("axis", c.session.Axis.String()).
		Str("reason", reason).
		Msg("resize session ended")
	c.session = nil
}

// Nudge grows paneID (AxisPanes) or its row (AxisRows) by stepPercent of the pair
// it forms with its next sibling, or its previous sibling when it is last.
// Negative steps shrink. The pair is clamped like a drag.
func (c *ResizeController) Nudge(ctx context.Context, l entity.Layout, paneID entity.PaneID, axis ResizeAxis, stepPercent float64) (entity.Layout, error) {
	out := entity.Repair(l, c.idGenerator)
	ri := out.RowIndexOf(paneID)
	if ri < 0 {
		return out, fmt.Errorf("nudge %s: %w", paneID, ErrPaneNotFound)
	}

	switch axis {
	case AxisRows:
		if len(out.Rows) < 2 {
			return out, fmt.Errorf("nudge %s: %w", paneID, ErrNothingToResize)
		}
		ni := siblingIndex(ri, len(out.Rows))
		first, second := nudgePair(out.Rows[ri].Size, out.Rows[ni].Size, stepPercent)
		out.Rows[ri].Size = first
		out.Rows[ni].Size = second
	case AxisPanes:
		row := out.Rows[ri]
		if len(row.PaneIDs) < 2 {
			return out, fmt.Errorf("nudge %s: %w", paneID, ErrNothingToResize)
		}
		neighbor := row.PaneIDs[siblingIndex(row.IndexOf(paneID), len(row.PaneIDs))]
		first, second := nudgePair(row.PaneWeight(paneID), row.PaneWeight(neighbor), stepPercent)
		row.PaneSizes[paneID] = first
		row.PaneSizes[neighbor] = second
	}

	logging.FromContext(ctx).Debug().
		Str("pane_id", string(paneID)).
		Str("axis", axis.String()).
		Float64("step_percent", stepPercent).
		Msg("resize nudged")
	return out, nil
}

func siblingIndex(i, n int) int {
	if i+1 < n {
		return i + 1
	}
	return i - 1
}

func nudgePair(first, second, stepPercent float64) (float64, float64) {
	sum := first + second
	grown := entity.ClampWeight(first+stepPercent/100*sum, entity.MinWeight, sum-entity.MinWeight)
	return grown, sum - grown
}
