package model

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/cli/styles"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/ui/coordinator"
)

func newTestInspector(t *testing.T) (InspectorModel, *coordinator.WorkspaceCoordinator) {
	t.Helper()
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}

	initial := entity.Layout{
		Panes: []entity.Pane{entity.NewPane("P1"), entity.NewPane("P2")},
		Rows: []entity.Row{{
			ID:        "R1",
			PaneIDs:   []entity.PaneID{"P1", "P2"},
			Size:      entity.DefaultRowTotal,
			PaneSizes: map[entity.PaneID]float64{"P1": 1, "P2": 1},
		}},
		ActivePaneID: "P1",
	}
	coord := coordinator.NewWorkspaceCoordinator(context.Background(), coordinator.WorkspaceCoordinatorConfig{
		PanesUC:       usecase.NewManagePanesUseCase(ids),
		TabsUC:        usecase.NewManageTabsUseCase(ids),
		Resizer:       usecase.NewResizeController(ids),
		WindowStateID: "w",
		Initial:       initial,
	})
	m := NewInspectorModel(context.Background(), styles.NewTheme(), coord)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 26})
	return updated.(InspectorModel), coord
}

func send(t *testing.T, m InspectorModel, msg tea.Msg) InspectorModel {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(InspectorModel)
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestInspector_DragPaneDivider(t *testing.T) {
	m, coord := newTestInspector(t)

	m = send(t, m, mouse(tea.MouseActionPress, 39, 5))
	require.True(t, coord.Resizing())

	m = send(t, m, mouse(tea.MouseActionMotion, 59, 5))
	assert.InDelta(t, 1.5, coord.CurrentLayout().Rows[0].PaneWeight("P1"), 1e-9)
	assert.Contains(t, m.View(), "resizing panes")

	m = send(t, m, mouse(tea.MouseActionRelease, 59, 5))
	assert.False(t, coord.Resizing())

	send(t, m, mouse(tea.MouseActionMotion, 10, 5))
	assert.InDelta(t, 1.5, coord.CurrentLayout().Rows[0].PaneWeight("P1"), 1e-9)
}

func TestInspector_BlurCancelsDrag(t *testing.T) {
	m, coord := newTestInspector(t)

	m = send(t, m, mouse(tea.MouseActionPress, 39, 5))
	require.True(t, coord.Resizing())

	m = send(t, m, tea.BlurMsg{})
	assert.False(t, coord.Resizing())
	assert.Contains(t, m.View(), "resize cancelled")
}

func TestInspector_ClickFocusesPane(t *testing.T) {
	m, coord := newTestInspector(t)

	send(t, m, mouse(tea.MouseActionPress, 60, 10))
	assert.Equal(t, entity.PaneID("P2"), coord.CurrentLayout().ActivePaneID)
}

func TestInspector_Keys(t *testing.T) {
	m, coord := newTestInspector(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	require.Len(t, coord.CurrentLayout().Panes, 3)
	require.NoError(t, coord.CurrentLayout().Validate())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	assert.Equal(t, entity.PaneID("P2"), coord.CurrentLayout().ActivePaneID)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("{")})
	assert.Contains(t, m.View(), usecase.ErrNothingToResize.Error())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Len(t, coord.CurrentLayout().Panes, 2)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}
