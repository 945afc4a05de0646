package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

func TestSplitVertical_SharesRowEvenlyAndActivatesNewPane(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes:        []entity.Pane{paneWithTabs("P1", "/a.lex")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1"})},
		ActivePaneID: "P1",
	}

	out := uc.SplitVertical(ctx, layout, "P1")

	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Rows, 1)
	assert.Equal(t, []entity.PaneID{"P1", out.NewPaneID}, out.Layout.Rows[0].PaneIDs)
	shares := out.Layout.Rows[0].Shares()
	assert.InDelta(t, 0.5, shares[0], 1e-9)
	assert.InDelta(t, 0.5, shares[1], 1e-9)
	assert.Equal(t, out.NewPaneID, out.Layout.ActivePaneID)

	newPane, ok := out.Layout.FindPane(out.NewPaneID)
	require.True(t, ok)
	assert.True(t, newPane.IsEmpty())
}

func TestSplitVertical_InsertsAfterSplitPane(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows:  []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"}, 1.6, 0.4)},
	}

	out := uc.SplitVertical(ctx, layout, "P1")

	requireValid(t, out.Layout)
	r := out.Layout.Rows[0]
	assert.Equal(t, []entity.PaneID{"P1", out.NewPaneID, "P2"}, r.PaneIDs)
	shares := r.Shares()
	assert.InDelta(t, 0.4, shares[0], 1e-9)
	assert.InDelta(t, 0.4, shares[1], 1e-9)
	assert.InDelta(t, 0.2, shares[2], 1e-9)
}

func TestSplitVertical_FloorsTinyHalves(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows:  []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"}, 0.1, 1.9)},
	}

	out := uc.SplitVertical(ctx, layout, "P1")

	requireValid(t, out.Layout)
	for _, w := range out.Layout.Rows[0].Weights() {
		assert.GreaterOrEqual(t, w, entity.MinWeight-1e-9)
	}
}

func TestSplitHorizontal_HalvesRowAndInsertsBelow(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows: []entity.Row{
			row("R1", 0.6, []entity.PaneID{"P1"}),
			row("R2", 0.4, []entity.PaneID{"P2"}),
		},
		ActivePaneID: "P1",
	}

	out := uc.SplitHorizontal(ctx, layout, "P1")

	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Rows, 3)
	assert.Equal(t, entity.RowID("R1"), out.Layout.Rows[0].ID)
	assert.Equal(t, []entity.PaneID{out.NewPaneID}, out.Layout.Rows[1].PaneIDs)
	assert.Equal(t, entity.RowID("R2"), out.Layout.Rows[2].ID)
	assert.InDelta(t, 0.3, out.Layout.Rows[0].Size, 1e-9)
	assert.InDelta(t, 0.3, out.Layout.Rows[1].Size, 1e-9)
	assert.InDelta(t, 1.0, out.Layout.TotalRowSize(), 1e-9)
	assert.Equal(t, out.NewPaneID, out.Layout.ActivePaneID)
}

func TestSplit_UnknownPaneAppendsStandaloneRow(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.NewDefaultLayout("P1", "R1")
	out := uc.SplitVertical(ctx, layout, "missing")

	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Rows, 2)
	assert.Equal(t, []entity.PaneID{out.NewPaneID}, out.Layout.Rows[1].PaneIDs)
	assert.InDelta(t, entity.DefaultRowTotal, out.Layout.TotalRowSize(), 1e-9)
}

func TestSplit_DoesNotModifyInput(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes:        []entity.Pane{paneWithTabs("P1", "/a.lex")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1"})},
		ActivePaneID: "P1",
	}
	before := layout.Clone()

	uc.SplitVertical(ctx, layout, "P1")
	uc.SplitHorizontal(ctx, layout, "P1")

	assert.Equal(t, before, layout)
}

func TestClosePane_ScenarioB_RemainingPaneTakesFullRow(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes:        []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"}, 1.4, 0.6)},
		ActivePaneID: "P2",
	}

	out := uc.ClosePane(ctx, layout, "P2")

	requireValid(t, out)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, []entity.PaneID{"P1"}, out.Rows[0].PaneIDs)
	assert.InDelta(t, 1.0, out.Rows[0].Shares()[0], 1e-9)
	assert.Equal(t, entity.PaneID("P1"), out.ActivePaneID)
}

func TestClosePane_OnlyPaneIsNoop(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.NewDefaultLayout("P1", "R1")
	out := uc.ClosePane(ctx, layout, "P1")

	assert.Equal(t, layout, out)
}

func TestClosePane_ConservesRowTotals(t *testing.T) {
	tests := []struct {
		name       string
		close      entity.PaneID
		absorber   entity.RowID
		wantSize   float64
		wantRowIDs []entity.RowID
	}{
		{name: "first row donates to row now first", close: "P1", absorber: "R2", wantSize: 0.6, wantRowIDs: []entity.RowID{"R2", "R3", "R4"}},
		{name: "middle row donates to row now at same index", close: "P3", absorber: "R4", wantSize: 0.4, wantRowIDs: []entity.RowID{"R1", "R2", "R4"}},
		{name: "last row donates to new last row", close: "P4", absorber: "R3", wantSize: 0.4, wantRowIDs: []entity.RowID{"R1", "R2", "R3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

			layout := entity.Layout{
				Panes: []entity.Pane{
					entity.NewPane("P1"), entity.NewPane("P2"), entity.NewPane("P3"),
					entity.NewPane("P4"), entity.NewPane("P5"),
				},
				Rows: []entity.Row{
					row("R1", 0.2, []entity.PaneID{"P1"}),
					row("R2", 0.4, []entity.PaneID{"P2", "P5"}, 1.5, 0.5),
					row("R3", 0.3, []entity.PaneID{"P3"}),
					row("R4", 0.1, []entity.PaneID{"P4"}),
				},
				ActivePaneID: "P5",
			}
			total := layout.TotalRowSize()

			out := uc.ClosePane(ctx, layout, tt.close)

			requireValid(t, out)
			assert.InDelta(t, total, out.TotalRowSize(), 1e-9)
			ids := make([]entity.RowID, 0, len(out.Rows))
			for _, r := range out.Rows {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantRowIDs, ids)

			absorber := out.Rows[out.RowIndex(tt.absorber)]
			assert.InDelta(t, tt.wantSize, absorber.Size, 1e-9)
			before := layout.Rows[layout.RowIndex(tt.absorber)]
			for _, id := range absorber.PaneIDs {
				if before.Contains(id) {
					assert.InDelta(t, before.PaneWeight(id), absorber.PaneWeight(id), 1e-9)
				}
			}
		})
	}
}

func TestClosePane_InMultiPaneRowRenormalizes(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2"), entity.NewPane("P3")},
		Rows:  []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2", "P3"}, 1.5, 1.0, 0.5)},
	}

	out := uc.ClosePane(ctx, layout, "P2")

	requireValid(t, out)
	shares := out.Rows[0].Shares()
	assert.InDelta(t, 0.75, shares[0], 1e-9)
	assert.InDelta(t, 0.25, shares[1], 1e-9)
	assert.Equal(t, entity.PaneID("P1"), out.ActivePaneID)
}

func TestFocus_UnknownPaneKeepsActive(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes:        []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"})},
		ActivePaneID: "P1",
	}

	assert.Equal(t, entity.PaneID("P2"), uc.Focus(ctx, layout, "P2").ActivePaneID)
	assert.Equal(t, entity.PaneID("P1"), uc.Focus(ctx, layout, "nope").ActivePaneID)
}

func TestFocusIndex_FollowsVisualOrder(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P3"), entity.NewPane("P1"), entity.NewPane("P2")},
		Rows: []entity.Row{
			row("R1", 0.5, []entity.PaneID{"P1", "P2"}),
			row("R2", 0.5, []entity.PaneID{"P3"}),
		},
		ActivePaneID: "P3",
	}

	assert.Equal(t, entity.PaneID("P1"), uc.FocusIndex(ctx, layout, 0).ActivePaneID)
	assert.Equal(t, entity.PaneID("P3"), uc.FocusIndex(ctx, layout, 2).ActivePaneID)
	assert.Equal(t, entity.PaneID("P3"), uc.FocusIndex(ctx, layout, 9).ActivePaneID)
}

func TestMutators_RepairDanglingReferences(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows: []entity.Row{
			row("R1", 0.5, []entity.PaneID{"P1", "ghost"}),
			row("R2", 0.5, []entity.PaneID{"ghost2"}),
		},
		ActivePaneID: "gone",
	}

	out := uc.SplitVertical(ctx, layout, "P1")

	requireValid(t, out.Layout)
	assert.Equal(t, 3, out.Layout.PaneCount())
	assert.InDelta(t, 1.0, out.Layout.TotalRowSize(), 1e-9)
}

func TestClosePane_LogsClosedPaneID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: zerolog.InfoLevel, Format: "json", Output: &buf})
	ctx := logging.WithContext(context.Background(), logger)
	uc := usecase.NewManagePanesUseCase(sequentialIDs("id"))

	layout := entity.Layout{
		Panes:        []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"})},
		ActivePaneID: "P1",
	}
	uc.ClosePane(ctx, layout, "P2")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pane closed", entry["message"])
	assert.Equal(t, "P2", entry["pane_id"])
	assert.Equal(t, "P1", entry["active_pane_id"])
}
