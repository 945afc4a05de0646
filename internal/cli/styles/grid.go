package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/lexgrid/internal/domain/entity"
)

// borderCells is the space a rounded border takes on each axis.
const borderCells = 2

// RenderLayout draws the layout as bordered boxes filling width x height cells.
func RenderLayout(theme *Theme, l entity.Layout, width, height int) string {
	g := ComputeGeometry(l, width, height)

	rows := make([]string, 0, len(g.Rows))
	for _, band := range g.Rows {
		var boxes []string
		for _, rect := range g.Panes {
			if rect.RowID != band.RowID {
				continue
			}
			pane, _ := l.FindPane(rect.PaneID)
			boxes = append(boxes, renderPane(theme, pane, rect, pane.ID == l.ActivePaneID))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderPane(theme *Theme, pane entity.Pane, rect PaneRect, active bool) string {
	style := theme.Pane
	if active {
		style = theme.ActivePane
	}
	innerW := max(rect.W-borderCells, 0)
	innerH := max(rect.H-borderCells, 0)

	lines := []string{theme.Title.Render(string(pane.ID))}
	for _, tab := range pane.Tabs {
		marker := "  "
		tabStyle := theme.Tab
		if tab.IsPreview() {
			tabStyle = theme.PreviewTab
		}
		if tab.ID == pane.ActiveTabID {
			marker = "● "
			tabStyle = theme.ActiveTab
		}
		lines = append(lines, tabStyle.Render(marker+tabLabel(tab)))
	}
	if pane.IsEmpty() {
		lines = append(lines, theme.Subtle.Render("(empty)"))
	} else if pane.LastKnownFilePath != "" {
		lines = append(lines, theme.Subtle.Render(fmt.Sprintf("line %d", pane.CursorLine)))
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	return style.
		Width(innerW).
		Height(innerH).
		MaxWidth(rect.W).
		MaxHeight(rect.H).
		Render(strings.Join(lines, "\n"))
}

func tabLabel(tab entity.Tab) string {
	if tab.Name != "" {
		return tab.Name
	}
	return tab.Path
}

// DescribeLayout renders a plain outline: one line per row with pane shares.
// The active pane is starred.
func DescribeLayout(l entity.Layout) string {
	var b strings.Builder
	total := l.TotalRowSize()
	for _, r := range l.Rows {
		share := 0.0
		if total > 0 {
			share = r.Size / total * 100
		}
		fmt.Fprintf(&b, "%s %5.1f%%", r.ID, share)
		shares := r.Shares()
		for i, paneID := range r.PaneIDs {
			marker := ""
			if paneID == l.ActivePaneID {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s%s:%.1f%%", paneID, marker, shares[i]*100)
		}
		b.WriteString("\n")
	}
	return b.String()
}
