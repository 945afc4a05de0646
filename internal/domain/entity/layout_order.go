package entity

// TabRef locates a tab inside a pane.
type TabRef struct {
	PaneID PaneID
	TabID  TabID
}

// VisualPaneOrder linearizes the grid top-to-bottom, left-to-right.
// Panes referenced by no row are appended in canonical order so keyboard
// navigation can always reach them; row references to unknown panes are skipped.
func VisualPaneOrder(l Layout) []PaneID {
	order := make([]PaneID, 0, len(l.Panes))
	seen := make(map[PaneID]struct{}, len(l.Panes))
	for _, r := range l.Rows {
		for _, id := range r.PaneIDs {
			if _, dup := seen[id]; dup || !l.HasPane(id) {
				continue
			}
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, p := range l.Panes {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		order = append(order, p.ID)
	}
	return order
}

// VisualTabOrder lists every tab following VisualPaneOrder, tabs in pane order.
func VisualTabOrder(l Layout) []TabRef {
	var refs []TabRef
	for _, paneID := range VisualPaneOrder(l) {
		pane, _ := l.FindPane(paneID)
		for _, tab := range pane.Tabs {
			refs = append(refs, TabRef{PaneID: paneID, TabID: tab.ID})
		}
	}
	return refs
}
