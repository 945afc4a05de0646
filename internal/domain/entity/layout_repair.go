package entity

import "math"

// IDGenerator is a function that generates unique IDs.
type IDGenerator func() string

// Repair returns a copy of the layout that satisfies every invariant checked by Validate.
// Dangling and duplicate references are dropped silently, rows left empty are removed with
// their size donated to the row that takes their index (the last row when none follows),
// panes referenced by no row are appended to the first row, weights are floored and
// normalized, and an unresolvable active pane falls back to the first pane.
// idGen is only consulted when a pane or row has to be created.
func Repair(l Layout, idGen IDGenerator) Layout {
	out := Layout{ActivePaneID: l.ActivePaneID}

	out.Panes = repairPanes(l.Panes)
	if len(out.Panes) == 0 {
		out.Panes = []Pane{NewPane(PaneID(idGen()))}
	}

	known := make(map[PaneID]struct{}, len(out.Panes))
	for _, p := range out.Panes {
		known[p.ID] = struct{}{}
	}

	rows, orphanSize := repairRows(l.Rows, known, idGen)
	out.Rows = rows

	placed := make(map[PaneID]struct{}, len(out.Panes))
	for _, r := range out.Rows {
		for _, id := range r.PaneIDs {
			placed[id] = struct{}{}
		}
	}
	for _, p := range out.Panes {
		if _, ok := placed[p.ID]; ok {
			continue
		}
		out.Rows = attachOrphan(out.Rows, p.ID, orphanSize, idGen)
		orphanSize = 0
	}

	out.Rows = floorRowSizes(out.Rows)
	for i := range out.Rows {
		out.Rows[i] = out.Rows[i].Normalize()
	}

	if !out.HasPane(out.ActivePaneID) {
		out.ActivePaneID = out.Panes[0].ID
	}
	return out
}

func repairPanes(panes []Pane) []Pane {
	out := make([]Pane, 0, len(panes))
	seen := make(map[PaneID]struct{}, len(panes))
	for _, p := range panes {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		pane := p.Clone()
		if pane.ActiveTabID != "" && pane.TabIndex(pane.ActiveTabID) < 0 {
			pane.ActiveTabID = ""
		}
		if pane.ActiveTabID == "" && len(pane.Tabs) > 0 {
			pane.ActiveTabID = pane.Tabs[0].ID
		}
		if pane.CursorLine < 0 {
			pane.CursorLine = 0
		}
		out = append(out, pane)
	}
	return out
}

// repairRows filters dangling and duplicate pane references and removes rows left empty.
// The second result is the size freed by removed rows when no row survived to absorb it.
func repairRows(rows []Row, known map[PaneID]struct{}, idGen IDGenerator) ([]Row, float64) {
	type keptRow struct {
		row      Row
		original int
	}

	kept := make([]keptRow, 0, len(rows))
	type freed struct {
		original int
		size     float64
	}
	var removed []freed
	placed := make(map[PaneID]struct{}, len(known))
	rowIDs := make(map[RowID]struct{}, len(rows))

	for i, r := range rows {
		row := r.Clone()
		row.Size = sanitizeSize(row.Size)
		if _, dup := rowIDs[row.ID]; dup || row.ID == "" {
			row.ID = RowID(idGen())
		}
		rowIDs[row.ID] = struct{}{}
		ids := make([]PaneID, 0, len(row.PaneIDs))
		for _, id := range row.PaneIDs {
			if _, ok := known[id]; !ok {
				continue
			}
			if _, dup := placed[id]; dup {
				continue
			}
			placed[id] = struct{}{}
			ids = append(ids, id)
		}
		row.PaneIDs = ids
		if len(ids) == 0 {
			removed = append(removed, freed{original: i, size: row.Size})
			continue
		}
		kept = append(kept, keptRow{row: row, original: i})
	}

	if len(kept) == 0 {
		total := 0.0
		for _, f := range removed {
			total += f.size
		}
		return nil, total
	}

	for _, f := range removed {
		target := len(kept) - 1
		for k, kr := range kept {
			if kr.original > f.original {
				target = k
				break
			}
		}
		kept[target].row.Size += f.size
	}

	out := make([]Row, len(kept))
	for i, kr := range kept {
		out[i] = kr.row
	}
	return out, 0
}

func attachOrphan(rows []Row, paneID PaneID, freedSize float64, idGen IDGenerator) []Row {
	if len(rows) == 0 {
		size := freedSize
		if size < MinWeight {
			size = DefaultRowTotal
		}
		return []Row{NewRow(RowID(idGen()), size, paneID)}
	}
	first := rows[0].Clone()
	first.PaneIDs = append(first.PaneIDs, paneID)
	first.PaneSizes[paneID] = UnitWeight
	rows[0] = first
	return rows
}

func floorRowSizes(rows []Row) []Row {
	total := 0.0
	for _, r := range rows {
		total += r.Size
	}
	return RebalanceRowSizes(rows, total)
}

// RebalanceRowSizes scales row sizes so they sum to total, keeping every row at or
// above MinWeight. When total cannot hold a floor per row, the sum grows to
// len(rows) × MinWeight instead. The slice is updated in place and returned.
func RebalanceRowSizes(rows []Row, total float64) []Row {
	if len(rows) == 0 {
		return rows
	}
	sizes := make([]float64, len(rows))
	for i, r := range rows {
		sizes[i] = r.Size
	}
	target := math.Max(total, float64(len(rows))*MinWeight)
	sizes = DistributeWeights(sizes, target, MinWeight)
	for i := range rows {
		rows[i].Size = sizes[i]
	}
	return rows
}

func sanitizeSize(size float64) float64 {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return 0
	}
	return size
}
