package styles

import (
	"math"

	"github.com/bnema/lexgrid/internal/domain/entity"
)

// RowBand is the vertical extent of a row in terminal cells.
type RowBand struct {
	RowID entity.RowID
	Y, H  int
}

// PaneRect is the cell rectangle of a pane, borders included.
type PaneRect struct {
	PaneID     entity.PaneID
	RowID      entity.RowID
	X, Y, W, H int
}

// Geometry maps a layout onto a width x height cell grid.
type Geometry struct {
	Width, Height int
	Rows          []RowBand
	Panes         []PaneRect
}

// ComputeGeometry splits height by row sizes and each row's width by pane weights.
// Cumulative rounding keeps the bands gap-free.
func ComputeGeometry(l entity.Layout, width, height int) Geometry {
	g := Geometry{Width: width, Height: height}

	sizes := make([]float64, len(l.Rows))
	for i, r := range l.Rows {
		sizes[i] = r.Size
	}
	ys := cumulativeCells(sizes, height)

	for i, r := range l.Rows {
		band := RowBand{RowID: r.ID, Y: ys[i], H: ys[i+1] - ys[i]}
		g.Rows = append(g.Rows, band)

		xs := cumulativeCells(r.Weights(), width)
		for j, paneID := range r.PaneIDs {
			g.Panes = append(g.Panes, PaneRect{
				PaneID: paneID,
				RowID:  r.ID,
				X:      xs[j],
				Y:      band.Y,
				W:      xs[j+1] - xs[j],
				H:      band.H,
			})
		}
	}
	return g
}

// cumulativeCells returns len(parts)+1 boundaries covering [0, total].
func cumulativeCells(parts []float64, total int) []int {
	out := make([]int, len(parts)+1)
	sum := 0.0
	for _, p := range parts {
		sum += p
	}
	if sum <= 0 {
		return out
	}
	acc := 0.0
	for i, p := range parts {
		acc += p
		out[i+1] = int(math.Round(acc / sum * float64(total)))
	}
	out[len(parts)] = total
	return out
}

// PaneAt returns the pane covering cell (x, y).
func (g Geometry) PaneAt(x, y int) (PaneRect, bool) {
	for _, p := range g.Panes {
		if x >= p.X && x < p.X+p.W && y >= p.Y && y < p.Y+p.H {
			return p, true
		}
	}
	return PaneRect{}, false
}

// RowDividerAt returns the row whose bottom border sits on line y, excluding the last row.
func (g Geometry) RowDividerAt(y int) (RowBand, bool) {
	for i, r := range g.Rows {
		if i < len(g.Rows)-1 && y == r.Y+r.H-1 {
			return r, true
		}
	}
	return RowBand{}, false
}

// PaneDividerAt returns the pane whose right border sits on cell (x, y),
// excluding the last pane of a row.
func (g Geometry) PaneDividerAt(x, y int) (PaneRect, bool) {
	for i, p := range g.Panes {
		if y < p.Y || y >= p.Y+p.H || x != p.X+p.W-1 {
			continue
		}
		if i+1 < len(g.Panes) && g.Panes[i+1].RowID == p.RowID {
			return p, true
		}
	}
	return PaneRect{}, false
}
