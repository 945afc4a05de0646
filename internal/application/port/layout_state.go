package port

import "github.com/bnema/lexgrid/internal/domain/entity"

// LayoutProvider gives read access to the current layout value.
// Implemented by the UI coordinator so the snapshot service can persist it.
type LayoutProvider interface {
	// CurrentLayout returns the latest committed layout.
	CurrentLayout() entity.Layout
	// WindowStateID returns the settings scope of the window.
	WindowStateID() string
}
