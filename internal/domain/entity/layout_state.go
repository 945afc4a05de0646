package entity

import (
	"encoding/json"
	"fmt"
)

// Settings keys under which a window's layout is persisted.
const (
	SettingsKeyPanes      = "panes"
	SettingsKeyRows       = "rows"
	SettingsKeyActivePane = "activePaneId"
)

// SettingsRecord is the raw key/value record stored for one window.
type SettingsRecord map[string]json.RawMessage

// PaneState is the persisted form of a pane. Only file tabs are kept, by path.
type PaneState struct {
	ID         PaneID   `json:"id" jsonschema:"required"`
	Tabs       []string `json:"tabs" jsonschema:"required"`
	ActiveTab  string   `json:"activeTab,omitempty"`
	LastFile   string   `json:"lastFile,omitempty"`
	CursorLine int      `json:"cursorLine,omitempty" jsonschema:"minimum=0"`
}

// RowState is the persisted form of a row.
type RowState struct {
	ID        RowID              `json:"id" jsonschema:"required"`
	PaneIDs   []PaneID           `json:"paneIds" jsonschema:"required"`
	Size      float64            `json:"size" jsonschema:"required"`
	PaneSizes map[PaneID]float64 `json:"paneSizes"`
}

// LayoutState captures a layout as it is written to the settings collaborator.
type LayoutState struct {
	Panes        []PaneState `json:"panes"`
	Rows         []RowState  `json:"rows"`
	ActivePaneID PaneID      `json:"activePaneId"`
}

// StateFromLayout creates the persisted form of a layout. Preview tabs are dropped.
func StateFromLayout(l Layout) LayoutState {
	state := LayoutState{
		Panes:        make([]PaneState, 0, len(l.Panes)),
		Rows:         make([]RowState, 0, len(l.Rows)),
		ActivePaneID: l.ActivePaneID,
	}

	for _, p := range l.Panes {
		ps := PaneState{
			ID:         p.ID,
			Tabs:       p.FilePaths(),
			LastFile:   p.LastKnownFilePath,
			CursorLine: p.CursorLine,
		}
		if active, ok := p.ActiveTab(); ok && active.Type == TabFile {
			ps.ActiveTab = active.Path
		}
		state.Panes = append(state.Panes, ps)
	}

	for _, r := range l.Rows {
		rs := RowState{
			ID:        r.ID,
			PaneIDs:   make([]PaneID, len(r.PaneIDs)),
			Size:      r.Size,
			PaneSizes: make(map[PaneID]float64, len(r.PaneIDs)),
		}
		copy(rs.PaneIDs, r.PaneIDs)
		for _, id := range r.PaneIDs {
			rs.PaneSizes[id] = r.PaneWeight(id)
		}
		state.Rows = append(state.Rows, rs)
	}

	return state
}

// Encode splits the state into settings keys. Map keys are emitted sorted,
// so equal states always encode to identical bytes.
func (s LayoutState) Encode() (SettingsRecord, error) {
	panes, err := json.Marshal(s.Panes)
	if err != nil {
		return nil, fmt.Errorf("encode panes: %w", err)
	}
	rows, err := json.Marshal(s.Rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	active, err := json.Marshal(s.ActivePaneID)
	if err != nil {
		return nil, fmt.Errorf("encode active pane: %w", err)
	}
	return SettingsRecord{
		SettingsKeyPanes:      panes,
		SettingsKeyRows:       rows,
		SettingsKeyActivePane: active,
	}, nil
}

// DecodeLayoutState reads a layout back from a settings record.
// A record without a panes key decodes to an empty state and no error.
func DecodeLayoutState(rec SettingsRecord) (LayoutState, error) {
	var state LayoutState
	if raw, ok := rec[SettingsKeyPanes]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &state.Panes); err != nil {
			return LayoutState{}, fmt.Errorf("decode panes: %w", err)
		}
	}
	if raw, ok := rec[SettingsKeyRows]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &state.Rows); err != nil {
			return LayoutState{}, fmt.Errorf("decode rows: %w", err)
		}
	}
	if raw, ok := rec[SettingsKeyActivePane]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &state.ActivePaneID); err != nil {
			return LayoutState{}, fmt.Errorf("decode active pane: %w", err)
		}
	}
	return state, nil
}
