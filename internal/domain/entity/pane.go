// Package entity contains domain entities representing core workspace concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import "path/filepath"

// PaneID uniquely identifies a pane within a window.
type PaneID string

// TabID uniquely identifies a tab within a pane.
type TabID string

// TabType distinguishes persisted documents from ephemeral previews.
type TabType string

const (
	TabFile    TabType = "file"
	TabPreview TabType = "preview"
)

// Tab references an open document, or a virtual preview, inside a pane.
type Tab struct {
	ID   TabID
	Path string
	Name string
	Type TabType

	// Preview-only fields
	PreviewHTML string // Rendered content for TabPreview
	SourcePath  string // File the preview was spawned from
}

// NewFileTab creates a file tab whose display name is the base name of path.
func NewFileTab(id TabID, path string) Tab {
	return Tab{
		ID:   id,
		Path: path,
		Name: filepath.Base(path),
		Type: TabFile,
	}
}

// IsPreview reports whether the tab is an ephemeral preview.
func (t Tab) IsPreview() bool {
	return t.Type == TabPreview
}

// Pane is an independently scrollable editing surface holding an ordered list of tabs.
type Pane struct {
	ID                PaneID
	Tabs              []Tab
	ActiveTabID       TabID  // Empty when the pane has no tabs
	LastKnownFilePath string // Empty until a file has been shown
	CursorLine        int
}

// NewPane creates an empty pane.
func NewPane(id PaneID) Pane {
	return Pane{ID: id}
}

// Clone returns a deep copy of the pane.
func (p Pane) Clone() Pane {
	clone := p
	if p.Tabs != nil {
		clone.Tabs = make([]Tab, len(p.Tabs))
		copy(clone.Tabs, p.Tabs)
	}
	return clone
}

// IsEmpty reports whether the pane holds no tabs.
func (p Pane) IsEmpty() bool {
	return len(p.Tabs) == 0
}

// TabIndex returns the index of the tab with the given ID, or -1.
func (p Pane) TabIndex(id TabID) int {
	for i, tab := range p.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// TabIndexByPath returns the index of the first tab showing path, or -1.
func (p Pane) TabIndexByPath(path string) int {
	for i, tab := range p.Tabs {
		if tab.Path == path {
			return i
		}
	}
	return -1
}

// ActiveTab returns the active tab, if any.
func (p Pane) ActiveTab() (Tab, bool) {
	if idx := p.TabIndex(p.ActiveTabID); idx >= 0 {
		return p.Tabs[idx], true
	}
	return Tab{}, false
}

// RemoveTabAt removes the tab at idx and shifts activation when the removed tab was active:
// the tab now at the same index becomes active (clamped to bounds), or none if the pane is empty.
func (p *Pane) RemoveTabAt(idx int) Tab {
	removed := p.Tabs[idx]
	tabs := make([]Tab, 0, len(p.Tabs)-1)
	tabs = append(tabs, p.Tabs[:idx]...)
	tabs = append(tabs, p.Tabs[idx+1:]...)
	p.Tabs = tabs

	if p.ActiveTabID == removed.ID {
		switch {
		case len(p.Tabs) == 0:
			p.ActiveTabID = ""
		case idx < len(p.Tabs):
			p.ActiveTabID = p.Tabs[idx].ID
		default:
			p.ActiveTabID = p.Tabs[len(p.Tabs)-1].ID
		}
	}
	return removed
}

// FilePaths returns the paths of the pane's file tabs in order.
func (p Pane) FilePaths() []string {
	paths := make([]string, 0, len(p.Tabs))
	for _, tab := range p.Tabs {
		if tab.Type == TabFile {
			paths = append(paths, tab.Path)
		}
	}
	return paths
}
