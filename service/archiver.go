package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/tnqbao/gau-drop-service/blobstore"
	"github.com/tnqbao/gau-drop-service/infra"
)

// FilePayload is one uploaded file decoupled from the HTTP layer.
type FilePayload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// NamingContext carries the pieces every generated name is built from. All
// files of one request share Timestamp and RequestID, so concurrent requests
// with identical titles can never collide on paths.
type NamingContext struct {
	TitleSlug    string
	PasswordSlug string
	Timestamp    time.Time
	RequestID    string
}

// NewNamingContext builds a fresh context with the current time and a unique
// request suffix.
func NewNamingContext(title, password string) NamingContext {
	return NamingContext{
		TitleSlug:    Slugify(title),
		PasswordSlug: Slugify(password),
		Timestamp:    time.Now(),
		RequestID:    uuid.NewString()[:8],
	}
}

const timestampLayout = "2006-01-02_150405"

// CleanupPublisher enqueues blob paths for asynchronous removal when the
// best-effort deletion on the request path fails.
type CleanupPublisher interface {
	PublishCleanup(ctx context.Context, dropID string, blobPaths []string, reason string) error
}

// Archiver persists uploaded payloads under generated names, bundles them
// into a single zip in the blob store and removes the now redundant
// individual files. Any failure after partial writes rolls the stored blobs
// back so success and failure leave the store equally clean.
type Archiver struct {
	store      blobstore.Store
	rootPrefix string
	cleanup    CleanupPublisher
	logger     *infra.LoggerClient
}

func NewArchiver(store blobstore.Store, rootPrefix string, cleanup CleanupPublisher, logger *infra.LoggerClient) *Archiver {
	return &Archiver{
		store:      store,
		rootPrefix: strings.Trim(rootPrefix, "/"),
		cleanup:    cleanup,
		logger:     logger,
	}
}

// Archive runs the store-each, zip, delete-sources pipeline and returns the
// archive's store-relative path. Invalid payloads (zero bytes, unreadable)
// are skipped without consuming a sequence index; ErrNoValidFiles is returned
// when nothing could be stored.
func (a *Archiver) Archive(ctx context.Context, files []FilePayload, nc NamingContext) (string, error) {
	ts := nc.Timestamp.Format(timestampLayout)

	stored := make([]string, 0, len(files))
	seq := 1
	for _, f := range files {
		if f.Size == 0 {
			a.logf(ctx, "[Archiver] Skipping empty upload '%s'", f.Filename)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			a.logf(ctx, "[Archiver] Skipping unreadable upload '%s': %v", f.Filename, err)
			continue
		}

		ext := strings.ToLower(path.Ext(f.Filename))
		name := fmt.Sprintf("%d_%s_%s_%s%s", seq, nc.TitleSlug, ts, nc.RequestID, ext)
		relPath := path.Join(a.rootPrefix, name)

		err = a.store.Put(ctx, relPath, rc, f.Size, f.ContentType)
		rc.Close()
		if err != nil {
			a.logf(ctx, "[Archiver] Skipping upload '%s', store write failed: %v", f.Filename, err)
			continue
		}

		stored = append(stored, relPath)
		seq++
	}

	if len(stored) == 0 {
		return "", ErrNoValidFiles
	}

	zipName := fmt.Sprintf("%s_%s_%s_%s.zip", nc.PasswordSlug, nc.TitleSlug, ts, nc.RequestID)
	archivePath := path.Join(a.rootPrefix, zipName)

	if err := a.buildArchive(ctx, archivePath, stored); err != nil {
		a.rollback(ctx, stored)
		return "", err
	}

	// Archive is durable, the individual files are redundant now. Deletion is
	// best-effort on the request path; failures go to the cleanup queue.
	var orphaned []string
	for _, p := range stored {
		if err := a.store.Remove(ctx, p); err != nil {
			a.logf(ctx, "[Archiver] Failed to remove source blob %s after archiving: %v", p, err)
			orphaned = append(orphaned, p)
		}
	}
	if len(orphaned) > 0 && a.cleanup != nil {
		if err := a.cleanup.PublishCleanup(ctx, "", orphaned, "source blobs left behind after archiving"); err != nil {
			a.logf(ctx, "[Archiver] Failed to publish cleanup job for %d blobs: %v", len(orphaned), err)
		}
	}

	return archivePath, nil
}

// buildArchive streams the stored blobs into a zip spooled to a temp file and
// writes the finished archive to the blob store. Entry names are the base
// filenames; duplicate entries are not deduplicated, the last write wins.
func (a *Archiver) buildArchive(ctx context.Context, archivePath string, stored []string) error {
	tmp, err := os.CreateTemp("", "drop-archive-*.zip")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(tmp)
	for _, p := range stored {
		rc, _, err := a.store.Get(ctx, p)
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("%w: failed to read back %s: %v", ErrArchiveCreate, p, err)
		}

		w, err := zw.Create(path.Base(p))
		if err != nil {
			rc.Close()
			zw.Close()
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
		}

		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}

	size, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}

	err = a.store.Put(ctx, archivePath, tmp, size, "application/zip")
	tmp.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	return nil
}

// StoreLoose persists one payload under a generated unique name without
// archiving. Used by update, which appends loose file paths.
func (a *Archiver) StoreLoose(ctx context.Context, f FilePayload) (string, error) {
	if f.Size == 0 {
		return "", ErrNoValidFiles
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload '%s': %w", f.Filename, err)
	}
	defer rc.Close()

	ext := strings.ToLower(path.Ext(f.Filename))
	relPath := path.Join(a.rootPrefix, uuid.NewString()+ext)

	if err := a.store.Put(ctx, relPath, rc, f.Size, f.ContentType); err != nil {
		return "", fmt.Errorf("failed to store upload '%s': %w", f.Filename, err)
	}
	return relPath, nil
}

// rollback removes blobs written before a failure so a failed create leaves
// no orphans behind.
func (a *Archiver) rollback(ctx context.Context, stored []string) {
	for _, p := range stored {
		if err := a.store.Remove(ctx, p); err != nil {
			a.logf(ctx, "[Archiver] Rollback failed to remove %s: %v", p, err)
			if a.cleanup != nil {
				_ = a.cleanup.PublishCleanup(ctx, "", []string{p}, "rollback removal failed")
			}
		}
	}
}

func (a *Archiver) logf(ctx context.Context, format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.WarningWithContextf(ctx, format, args...)
	}
}

// Slugify strips characters that would break a generated path segment.
func Slugify(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), ".")
}
