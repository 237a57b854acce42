// Package source provides the row sources a vlad can read: local files,
// in-memory strings, S3 objects and XLSX sheets.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// LocalFile reads from a path on disk, reopening it on every Open.
type LocalFile struct {
	Path string
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{Path: path}
}

func (f *LocalFile) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Path, err)
	}
	return fh, nil
}

func (f *LocalFile) String() string {
	return fmt.Sprintf("LocalFile('%s')", f.Path)
}
