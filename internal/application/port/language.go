package port

import "context"

// LanguageIntelligence receives document lifecycle hooks from the workspace.
// NotifyOpened fires when a file starts being shown by some pane and
// NotifyClosed when no pane shows it anymore.
type LanguageIntelligence interface {
	NotifyOpened(ctx context.Context, path string) error
	NotifyClosed(ctx context.Context, path string) error
}
