// Package adapter contains transport and storage adapters for the bugscope CLI.
package adapter

import (
	"fmt"
	"os"

	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/spf13/afero"
)

// SourceFSAdapter hides filesystem access for source files the dashboard
// renders, so the domain layer can be tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a regular file and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter is the afero-backed SourceFSAdapter.
type LocalSourceFSAdapter struct {
	fs afero.Fs
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter on the OS filesystem.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return NewSourceFSAdapter(afero.NewOsFs())
}

// NewSourceFSAdapter constructs a LocalSourceFSAdapter on fs.
func NewSourceFSAdapter(fs afero.Fs) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: fs}
}

// ReadFile reads the file at path; directories are rejected.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	info, err := a.FileInfo(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return afero.ReadFile(a.fs, string(path))
}

// FileInfo returns metadata for the provided path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}
