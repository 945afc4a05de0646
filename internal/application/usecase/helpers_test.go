package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/domain/entity"
	"github.com/bnema/lexgrid/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func sequentialIDs(prefix string) usecase.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// paneWithTabs creates a pane whose first tab is active.
func paneWithTabs(id entity.PaneID, paths ...string) entity.Pane {
	p := entity.NewPane(id)
	for i, path := range paths {
		p.Tabs = append(p.Tabs, entity.NewFileTab(entity.TabID(fmt.Sprintf("%s-t%d", id, i)), path))
	}
	if len(p.Tabs) > 0 {
		p.ActiveTabID = p.Tabs[0].ID
	}
	return p
}

// row builds a row with explicit pane weights.
func row(id entity.RowID, size float64, panes []entity.PaneID, weights ...float64) entity.Row {
	r := entity.Row{ID: id, PaneIDs: panes, Size: size, PaneSizes: map[entity.PaneID]float64{}}
	for i, pid := range panes {
		w := entity.UnitWeight
		if i < len(weights) {
			w = weights[i]
		}
		r.PaneSizes[pid] = w
	}
	return r
}

func requireValid(t *testing.T, l entity.Layout) {
	t.Helper()
	require.NoError(t, l.Validate())
}

func rowOf(t *testing.T, l entity.Layout, paneID entity.PaneID) entity.Row {
	t.Helper()
	idx := l.RowIndexOf(paneID)
	require.GreaterOrEqual(t, idx, 0, "pane %s is in no row", paneID)
	return l.Rows[idx]
}
