// Package storage holds the FileStorage backends for accepted uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the upload directory relative to the working directory.
const DefaultDir = "uploads"

// DiskStorage writes uploads into a single local directory.
type DiskStorage struct {
	dir string
}

// NewDiskStorage creates dir when missing.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) Dir() string { return s.dir }

func (s *DiskStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid object key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

// Ping checks the directory still exists.
func (s *DiskStorage) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("upload path is not a directory")
	}
	return nil
}
