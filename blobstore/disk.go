package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps blobs on the local filesystem under a root directory. Used
// when no MinIO endpoint is configured and by tests. Writes go through a temp
// file and an atomic rename so readers never observe partial content.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob root %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) fullPath(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}

func (s *DiskStore) Put(_ context.Context, relPath string, reader io.Reader, _ int64, _ string) error {
	fullPath := s.fullPath(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmpPath := fullPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write blob %s: %w", relPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync blob %s: %w", relPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close blob %s: %w", relPath, err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename blob %s: %w", relPath, err)
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, relPath string) (io.ReadCloser, int64, error) {
	f, err := os.Open(s.fullPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotExist
		}
		return nil, 0, fmt.Errorf("failed to open blob %s: %w", relPath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat blob %s: %w", relPath, err)
	}

	return f, info.Size(), nil
}

func (s *DiskStore) Exists(_ context.Context, relPath string) (bool, error) {
	_, err := os.Stat(s.fullPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob %s: %w", relPath, err)
	}
	return true, nil
}

func (s *DiskStore) Move(_ context.Context, fromPath, toPath string) error {
	fullTo := s.fullPath(toPath)
	if err := os.MkdirAll(filepath.Dir(fullTo), 0o750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	if err := os.Rename(s.fullPath(fromPath), fullTo); err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to move blob %s to %s: %w", fromPath, toPath, err)
	}
	return nil
}

func (s *DiskStore) Remove(_ context.Context, relPath string) error {
	if err := os.Remove(s.fullPath(relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", relPath, err)
	}
	return nil
}
