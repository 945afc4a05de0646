package entity

// RowID uniquely identifies a row within a window.
type RowID string

// Row is a band of the workspace holding one or more panes along the cross axis.
type Row struct {
	ID        RowID
	PaneIDs   []PaneID
	Size      float64            // Share of the workspace extent along the split axis
	PaneSizes map[PaneID]float64 // Share of the row's cross-axis extent per pane
}

// NewRow creates a row holding a single pane at unit weight.
func NewRow(id RowID, size float64, paneID PaneID) Row {
	return Row{
		ID:        id,
		PaneIDs:   []PaneID{paneID},
		Size:      size,
		PaneSizes: map[PaneID]float64{paneID: UnitWeight},
	}
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	clone := r
	clone.PaneIDs = make([]PaneID, len(r.PaneIDs))
	copy(clone.PaneIDs, r.PaneIDs)
	clone.PaneSizes = make(map[PaneID]float64, len(r.PaneSizes))
	for id, w := range r.PaneSizes {
		clone.PaneSizes[id] = w
	}
	return clone
}

// IndexOf returns the position of paneID in the row, or -1.
func (r Row) IndexOf(paneID PaneID) int {
	for i, id := range r.PaneIDs {
		if id == paneID {
			return i
		}
	}
	return -1
}

// Contains reports whether the row references paneID.
func (r Row) Contains(paneID PaneID) bool {
	return r.IndexOf(paneID) >= 0
}

// PaneWeight returns the stored weight of paneID, defaulting to UnitWeight.
func (r Row) PaneWeight(paneID PaneID) float64 {
	if w, ok := r.PaneSizes[paneID]; ok {
		return w
	}
	return UnitWeight
}

// Weights returns the pane weights in PaneIDs order.
func (r Row) Weights() []float64 {
	weights := make([]float64, len(r.PaneIDs))
	for i, id := range r.PaneIDs {
		weights[i] = r.PaneWeight(id)
	}
	return weights
}

// Shares returns each pane's fraction of the row's total weight in PaneIDs order.
func (r Row) Shares() []float64 {
	weights := r.Weights()
	total := sumWeights(weights)
	shares := make([]float64, len(weights))
	if total <= 0 {
		return shares
	}
	for i, w := range weights {
		shares[i] = w / total
	}
	return shares
}

// Normalize returns a copy of the row whose pane weights sum to
// len(PaneIDs) × UnitWeight with every weight at or above MinWeight.
// Relative shares are preserved wherever the floor allows; stale
// PaneSizes entries are dropped. Normalizing twice equals normalizing once.
func (r Row) Normalize() Row {
	normalized := r.Clone()
	weights := DistributeWeights(r.Weights(), float64(len(r.PaneIDs))*UnitWeight, MinWeight)
	normalized.PaneSizes = make(map[PaneID]float64, len(r.PaneIDs))
	for i, id := range r.PaneIDs {
		normalized.PaneSizes[id] = weights[i]
	}
	return normalized
}

// IsNormalized reports whether Normalize would leave the weights unchanged.
func (r Row) IsNormalized() bool {
	if len(r.PaneSizes) != len(r.PaneIDs) {
		return false
	}
	return alreadyDistributed(r.Weights(), float64(len(r.PaneIDs))*UnitWeight, MinWeight)
}
