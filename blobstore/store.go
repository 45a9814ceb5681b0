// Package blobstore abstracts durable file storage keyed by store-relative
// paths. Soft-deleted blobs live under a reserved delete/ sub-prefix next to
// their original location.
package blobstore

import (
	"context"
	"errors"
	"io"
	"path"
)

var ErrNotExist = errors.New("blob does not exist")

// DeleteDir is the sub-prefix holding soft-deleted blobs.
const DeleteDir = "delete"

type Store interface {
	// Put writes the reader's content under the given relative path,
	// overwriting any existing blob. size may be -1 when unknown.
	Put(ctx context.Context, relPath string, reader io.Reader, size int64, contentType string) error
	// Get opens the blob for reading. Returns ErrNotExist when absent.
	Get(ctx context.Context, relPath string) (io.ReadCloser, int64, error)
	Exists(ctx context.Context, relPath string) (bool, error)
	// Move relocates a blob. Returns ErrNotExist when the source is absent.
	Move(ctx context.Context, fromPath, toPath string) error
	Remove(ctx context.Context, relPath string) error
}

// DeletedPath maps a blob path into the delete/ sub-prefix of its directory:
// uploads/drops/a.zip -> uploads/drops/delete/a.zip.
func DeletedPath(relPath string) string {
	return path.Join(path.Dir(relPath), DeleteDir, path.Base(relPath))
}

// RestoredPath maps a blob path out of the delete/ sub-prefix, the inverse of
// DeletedPath. Paths not under delete/ are returned unchanged.
func RestoredPath(relPath string) string {
	dir := path.Dir(relPath)
	if path.Base(dir) != DeleteDir {
		return relPath
	}
	return path.Join(path.Dir(dir), path.Base(relPath))
}

// IsDeletedPath reports whether the path points into a delete/ sub-prefix.
func IsDeletedPath(relPath string) bool {
	return path.Base(path.Dir(relPath)) == DeleteDir
}
