package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/lexgrid/internal/application/port/mocks"
	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/domain/entity"
	repomocks "github.com/bnema/lexgrid/internal/domain/repository/mocks"
)

func existingFiles(t *testing.T, paths ...string) *portmocks.MockFileSystem {
	t.Helper()
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
	}
	fs := portmocks.NewMockFileSystem(t)
	fs.EXPECT().Exists(mock.Anything, mock.AnythingOfType("string")).
		RunAndReturn(func(_ context.Context, path string) (bool, error) {
			return known[path], nil
		}).
		Maybe()
	return fs
}

func TestRestoreLayout_RoundTrip(t *testing.T) {
	ctx := testContext()
	ids := sequentialIDs("id")
	settings := newMemorySettings()
	tabs := usecase.NewManageTabsUseCase(ids)

	p2 := paneWithTabs("P2", "/b.lex", "/c.lex")
	p2.ActiveTabID = p2.Tabs[1].ID
	p2.LastKnownFilePath = "/c.lex"
	p2.CursorLine = 12
	layout := entity.Layout{
		Panes: []entity.Pane{paneWithTabs("P1", "/a.lex"), p2, entity.NewPane("P3")},
		Rows: []entity.Row{
			row("R1", 0.7, []entity.PaneID{"P1", "P2"}, 0.5, 1.5),
			row("R2", 0.3, []entity.PaneID{"P3"}),
		},
		ActivePaneID: "P2",
	}
	withPreview := tabs.OpenPreview(ctx, layout, "/a.lex", "<p/>", "P3")
	withPreview = tabs.ActivateTab(ctx, withPreview, "P2", p2.Tabs[1].ID)

	save := usecase.NewSaveLayoutUseCase(settings, ids)
	require.NoError(t, save.Execute(ctx, usecase.SaveLayoutInput{WindowStateID: "w", Layout: withPreview}))

	restore := usecase.NewRestoreLayoutUseCase(settings, existingFiles(t, "/a.lex", "/b.lex", "/c.lex"), ids, 2)
	out, err := restore.Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})

	require.NoError(t, err)
	require.True(t, out.Restored)
	requireValid(t, out.Layout)
	assert.Zero(t, out.DroppedTabs)
	assert.Equal(t, entity.StateFromLayout(layout), entity.StateFromLayout(out.Layout))
}

func TestRestoreLayout_DropsStaleTabsAndRecomputesActive(t *testing.T) {
	ctx := testContext()
	settings := newMemorySettings()
	ids := sequentialIDs("id")

	p1 := paneWithTabs("P1", "/gone.lex", "/kept.lex")
	p2 := paneWithTabs("P2", "/x.lex", "/y.lex")
	p2.ActiveTabID = p2.Tabs[1].ID
	layout := entity.Layout{
		Panes:        []entity.Pane{p1, p2},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"})},
		ActivePaneID: "P1",
	}
	require.NoError(t, usecase.NewSaveLayoutUseCase(settings, ids).Execute(ctx, usecase.SaveLayoutInput{WindowStateID: "w", Layout: layout}))

	restore := usecase.NewRestoreLayoutUseCase(settings, existingFiles(t, "/kept.lex", "/x.lex", "/y.lex"), ids, 0)
	out, err := restore.Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})
	require.NoError(t, err)
	requireValid(t, out.Layout)
	assert.Equal(t, 1, out.DroppedTabs)

	got1, _ := out.Layout.FindPane("P1")
	assert.Equal(t, []string{"/kept.lex"}, got1.FilePaths())
	active, _ := got1.ActiveTab()
	assert.Equal(t, "/kept.lex", active.Path)

	got2, _ := out.Layout.FindPane("P2")
	active, _ = got2.ActiveTab()
	assert.Equal(t, "/y.lex", active.Path)
}

func TestRestoreLayout_FailedExistenceCheckDropsTab(t *testing.T) {
	ctx := testContext()
	settings := newMemorySettings()
	ids := sequentialIDs("id")

	layout := entity.Layout{
		Panes:        []entity.Pane{paneWithTabs("P1", "/a.lex"), entity.NewPane("P2")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1", "P2"})},
		ActivePaneID: "P1",
	}
	require.NoError(t, usecase.NewSaveLayoutUseCase(settings, ids).Execute(ctx, usecase.SaveLayoutInput{WindowStateID: "w", Layout: layout}))

	fs := portmocks.NewMockFileSystem(t)
	fs.EXPECT().Exists(mock.Anything, "/a.lex").Return(false, errors.New("permission denied")).Once()

	out, err := usecase.NewRestoreLayoutUseCase(settings, fs, ids, 1).Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})
	require.NoError(t, err)
	p1, _ := out.Layout.FindPane("P1")
	assert.True(t, p1.IsEmpty())
	assert.Empty(t, p1.ActiveTabID)
}

func TestRestoreLayout_SinglePaneGetsEmptySibling(t *testing.T) {
	ctx := testContext()
	settings := newMemorySettings()
	ids := sequentialIDs("id")

	layout := entity.Layout{
		Panes:        []entity.Pane{paneWithTabs("P1", "/a.lex")},
		Rows:         []entity.Row{row("R1", 1.0, []entity.PaneID{"P1"})},
		ActivePaneID: "P1",
	}
	require.NoError(t, usecase.NewSaveLayoutUseCase(settings, ids).Execute(ctx, usecase.SaveLayoutInput{WindowStateID: "w", Layout: layout}))

	out, err := usecase.NewRestoreLayoutUseCase(settings, existingFiles(t, "/a.lex"), ids, 4).
		Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})
	require.NoError(t, err)
	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Panes, 2)
	assert.True(t, out.Layout.Panes[1].IsEmpty())
	require.Len(t, out.Layout.Rows, 1)
	assert.Equal(t, []entity.PaneID{"P1", out.Layout.Panes[1].ID}, out.Layout.Rows[0].PaneIDs)
	assert.Equal(t, entity.PaneID("P1"), out.Layout.ActivePaneID)
}

func TestRestoreLayout_SinglePaneAfterDedupGetsEmptySibling(t *testing.T) {
	tests := []struct {
		name  string
		panes string
	}{
		{name: "duplicate ids", panes: `[{"id":"P1","tabs":[]},{"id":"P1","tabs":[]}]`},
		{name: "empty id", panes: `[{"id":"","tabs":[]},{"id":"P1","tabs":[]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			settings := repomocks.NewMockSettingsRepository(t)
			settings.EXPECT().Get(mock.Anything, "w").Return(entity.SettingsRecord{
				entity.SettingsKeyPanes: json.RawMessage(tt.panes),
				entity.SettingsKeyRows:  json.RawMessage(`[{"id":"R1","paneIds":["P1"],"size":1,"paneSizes":{"P1":1}}]`),
			}, nil)

			out, err := usecase.NewRestoreLayoutUseCase(settings, portmocks.NewMockFileSystem(t), sequentialIDs("id"), 0).
				Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})

			require.NoError(t, err)
			requireValid(t, out.Layout)
			require.Len(t, out.Layout.Panes, 2)
			assert.Equal(t, entity.PaneID("P1"), out.Layout.Panes[0].ID)
			assert.True(t, out.Layout.Panes[1].IsEmpty())
			require.Len(t, out.Layout.Rows, 1)
			assert.Equal(t, []entity.PaneID{"P1", out.Layout.Panes[1].ID}, out.Layout.Rows[0].PaneIDs)
		})
	}
}

func TestRestoreLayout_ScenarioD_DanglingRowReferenceDropped(t *testing.T) {
	ctx := testContext()
	settings := repomocks.NewMockSettingsRepository(t)
	settings.EXPECT().Get(mock.Anything, "w").Return(entity.SettingsRecord{
		entity.SettingsKeyPanes: json.RawMessage(`[{"id":"P1","tabs":["/a.lex"],"activeTab":"/a.lex"},{"id":"P2","tabs":[]}]`),
		entity.SettingsKeyRows: json.RawMessage(`[` +
			`{"id":"R1","paneIds":["P1","P9"],"size":0.5,"paneSizes":{"P1":1,"P9":1}},` +
			`{"id":"R2","paneIds":["P2"],"size":0.5,"paneSizes":{"P2":1}}]`),
		entity.SettingsKeyActivePane: json.RawMessage(`"P9"`),
	}, nil)

	out, err := usecase.NewRestoreLayoutUseCase(settings, existingFiles(t, "/a.lex"), sequentialIDs("id"), 0).
		Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})

	require.NoError(t, err)
	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Rows, 2)
	assert.Equal(t, []entity.PaneID{"P1"}, out.Layout.Rows[0].PaneIDs)
	assert.Equal(t, []entity.PaneID{"P2"}, out.Layout.Rows[1].PaneIDs)
	assert.Equal(t, entity.PaneID("P1"), out.Layout.ActivePaneID)
}

func TestRestoreLayout_OrphanPanesJoinFirstRow(t *testing.T) {
	ctx := testContext()
	settings := repomocks.NewMockSettingsRepository(t)
	settings.EXPECT().Get(mock.Anything, "w").Return(entity.SettingsRecord{
		entity.SettingsKeyPanes: json.RawMessage(`[{"id":"P1","tabs":[]},{"id":"P2","tabs":[]},{"id":"P3","tabs":[]}]`),
		entity.SettingsKeyRows:  json.RawMessage(`[{"id":"R1","paneIds":["P1"],"size":1,"paneSizes":{"P1":1}}]`),
	}, nil)

	out, err := usecase.NewRestoreLayoutUseCase(settings, portmocks.NewMockFileSystem(t), sequentialIDs("id"), 0).
		Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})

	require.NoError(t, err)
	requireValid(t, out.Layout)
	require.Len(t, out.Layout.Rows, 1)
	assert.Equal(t, []entity.PaneID{"P1", "P2", "P3"}, out.Layout.Rows[0].PaneIDs)
}

func TestRestoreLayout_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name   string
		record entity.SettingsRecord
		err    error
	}{
		{name: "read error", err: errors.New("database locked")},
		{name: "empty record", record: entity.SettingsRecord{}},
		{name: "malformed panes", record: entity.SettingsRecord{entity.SettingsKeyPanes: json.RawMessage(`{"not":"a list"}`)}},
		{name: "malformed rows", record: entity.SettingsRecord{
			entity.SettingsKeyPanes: json.RawMessage(`[{"id":"P1","tabs":[]}]`),
			entity.SettingsKeyRows:  json.RawMessage(`[[`),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			settings := repomocks.NewMockSettingsRepository(t)
			settings.EXPECT().Get(mock.Anything, "w").Return(tt.record, tt.err)

			out, err := usecase.NewRestoreLayoutUseCase(settings, portmocks.NewMockFileSystem(t), sequentialIDs("id"), 0).
				Execute(ctx, usecase.RestoreLayoutInput{WindowStateID: "w"})

			require.NoError(t, err)
			assert.False(t, out.Restored)
			requireValid(t, out.Layout)
			assert.Len(t, out.Layout.Panes, 1)
			assert.Len(t, out.Layout.Rows, 1)
		})
	}
}

func TestRestoreLayout_RequiresWindowStateID(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewRestoreLayoutUseCase(repomocks.NewMockSettingsRepository(t), portmocks.NewMockFileSystem(t), sequentialIDs("id"), 0)

	_, err := uc.Execute(ctx, usecase.RestoreLayoutInput{})
	require.ErrorIs(t, err, usecase.ErrWindowStateIDRequired)
}
