// Package filesystem implements the file-access collaborator on top of afero.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/bnema/lexgrid/internal/application/port"
)

// Adapter implements port.FileSystem over an afero filesystem.
type Adapter struct {
	fs afero.Fs
}

// New creates a filesystem adapter backed by the OS filesystem.
func New() *Adapter {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates a filesystem adapter over fsys, typically an in-memory one in tests.
func NewWithFs(fsys afero.Fs) *Adapter {
	return &Adapter{fs: fsys}
}

// Exists reports whether path names a regular file. Directories do not count as
// documents and report false.
func (a *Adapter) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := a.fs.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile returns the content of path.
func (a *Adapter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

var _ port.FileSystem = (*Adapter)(nil)
