package port

import "context"

// FileSystem provides file system operations for the application layer.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
}
