package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tnqbao/gau-drop-service/blobstore"
	"github.com/tnqbao/gau-drop-service/entity"
	"github.com/tnqbao/gau-drop-service/repository"
)

func newTestDropService(t *testing.T) (*DropService, *blobstore.DiskStore, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	store := newTestStore(t)
	repo := repository.NewRepository(db)

	guard := NewFingerprintGuard(repo.FingerprintRepo, nil, nil)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)
	svc := NewDropService(repo.DropRepo, guard, archiver, store, nil, nil, "operator-override")
	return svc, store, db
}

func filePaths(t *testing.T, drop *entity.Drop) []string {
	t.Helper()
	var paths []string
	require.NoError(t, json.Unmarshal(drop.FilePaths, &paths))
	return paths
}

func TestCreateWithFilesArchives(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Description: "quarterly numbers",
		Password:    "secret",
		Fingerprint: "fp1",
		OwnerIP:     "203.0.113.7",
		Files: []FilePayload{
			payload("a.txt", "alpha"),
			payload("b.txt", "bravo"),
		},
	})
	require.NoError(t, err)

	paths := filePaths(t, drop)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(paths[0], "uploads/drops/secret_Report_"))
	assert.True(t, strings.HasSuffix(paths[0], ".zip"))

	entries := readZipEntries(t, store, paths[0])
	assert.Len(t, entries, 2)

	assert.Equal(t, "Report", drop.Title)
	assert.Equal(t, "203.0.113.7", drop.OwnerIP)
	assert.False(t, drop.IsDeleted)
}

func TestCreateWithoutFiles(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	drop, err := svc.Create(context.Background(), CreateDropInput{
		Title:       "No attachments",
		Fingerprint: "fp1",
	})
	require.NoError(t, err)
	assert.Empty(t, filePaths(t, drop))
}

func TestCreateBlockedFingerprint(t *testing.T) {
	t.Parallel()
	svc, _, db := newTestDropService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateDropInput{Title: "first", Fingerprint: "fp2"})
	require.NoError(t, err)

	_, err = svc.guard.ToggleBlock(ctx, "fp2")
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateDropInput{Title: "second", Fingerprint: "fp2"})
	assert.ErrorIs(t, err, ErrBlocked)

	// No row was persisted for the rejected request
	var count int64
	require.NoError(t, db.Model(&entity.Drop{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	_, err := svc.Create(context.Background(), CreateDropInput{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
	assert.Contains(t, vErr.Fields, "fingerprint")

	long := strings.Repeat("x", 256)
	_, err = svc.Create(context.Background(), CreateDropInput{Title: long, Fingerprint: "fp"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
}

func TestCreateNoValidFiles(t *testing.T) {
	t.Parallel()
	svc, _, db := newTestDropService(t)

	_, err := svc.Create(context.Background(), CreateDropInput{
		Title:       "Report",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("empty.txt", "")},
	})
	assert.ErrorIs(t, err, ErrNoValidFiles)

	var count int64
	require.NoError(t, db.Model(&entity.Drop{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReadNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	_, err := svc.Read(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMergesFieldsAndAppendsLooseFiles(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Description: "original",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)
	archivePath := filePaths(t, drop)[0]

	newTitle := "Renamed"
	updated, err := svc.Update(ctx, drop.ID, UpdateDropInput{
		Title: &newTitle,
		Files: []FilePayload{payload("extra.txt", "loose")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "original", updated.Description, "unspecified fields are retained")

	// Update appends a loose path, it never re-archives
	paths := filePaths(t, updated)
	require.Len(t, paths, 2)
	assert.Equal(t, archivePath, paths[0])
	assert.False(t, strings.HasSuffix(paths[1], ".zip"))

	exists, err := store.Exists(ctx, paths[1])
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	title := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateDropInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleSoftDeleteRoundTrip(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)
	originalPath := filePaths(t, drop)[0]

	toggled, err := svc.ToggleSoftDelete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsDeleted)

	deletedPaths := filePaths(t, toggled)
	require.Len(t, deletedPaths, 1)
	assert.True(t, blobstore.IsDeletedPath(deletedPaths[0]))

	exists, err := store.Exists(ctx, deletedPaths[0])
	require.NoError(t, err)
	assert.True(t, exists, "blob relocated into delete/")

	restored, err := svc.ToggleSoftDelete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	restoredPaths := filePaths(t, restored)
	require.Len(t, restoredPaths, 1)
	assert.Equal(t, originalPath, restoredPaths[0])

	exists, err = store.Exists(ctx, originalPath)
	require.NoError(t, err)
	assert.True(t, exists, "blob restored to its original path")
}

func TestToggleSoftDeleteMissingBlobTolerated(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)
	originalPath := filePaths(t, drop)[0]

	// Simulate consistency drift: the blob vanished from the store
	require.NoError(t, store.Remove(ctx, originalPath))

	toggled, err := svc.ToggleSoftDelete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsDeleted)

	// The would-be new path still lands in the list
	paths := filePaths(t, toggled)
	require.Len(t, paths, 1)
	assert.Equal(t, blobstore.DeletedPath(originalPath), paths[0])
}

func TestHardDeleteWithRecordPassword(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Password:    "secret",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)
	archivePath := filePaths(t, drop)[0]

	_, err = svc.HardDelete(ctx, drop.ID, "secret")
	require.NoError(t, err)

	_, err = svc.Read(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := store.Exists(ctx, archivePath)
	require.NoError(t, err)
	assert.False(t, exists, "archive removed with the row")
}

func TestHardDeleteWithOverrideKey(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Password:    "secret",
		Fingerprint: "fp1",
	})
	require.NoError(t, err)

	_, err = svc.HardDelete(ctx, drop.ID, "operator-override")
	require.NoError(t, err)
}

func TestHardDeleteWrongCredential(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Password:    "secret",
		Fingerprint: "fp1",
	})
	require.NoError(t, err)

	_, err = svc.HardDelete(ctx, drop.ID, "wrong")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Read(ctx, drop.ID)
	require.NoError(t, err, "record survives a rejected delete")
}

func TestHardDeleteNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	_, err := svc.HardDelete(context.Background(), uuid.New(), "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownload(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)

	rc, size, filename, err := svc.Download(ctx, drop.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Greater(t, size, int64(0))
	assert.True(t, strings.HasSuffix(filename, ".zip"))

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, size, int64(len(data)))
}

func TestDownloadNoContent(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{Title: "bare", Fingerprint: "fp1"})
	require.NoError(t, err)

	_, _, _, err = svc.Download(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestDownloadMissingBlob(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestDropService(t)
	ctx := context.Background()

	drop, err := svc.Create(ctx, CreateDropInput{
		Title:       "Report",
		Fingerprint: "fp1",
		Files:       []FilePayload{payload("a.txt", "alpha")},
	})
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, filePaths(t, drop)[0]))

	_, _, _, err = svc.Download(ctx, drop.ID)
	assert.ErrorIs(t, err, ErrMissingBlob)
}

func TestDownloadNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)

	_, _, _, err := svc.Download(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestDropService(t)
	ctx := context.Background()

	var deletedID uuid.UUID
	for i := 0; i < 5; i++ {
		drop, err := svc.Create(ctx, CreateDropInput{
			Title:       "entry",
			Fingerprint: "fp1",
		})
		require.NoError(t, err)
		if i == 0 {
			deletedID = drop.ID
		}
	}

	_, err := svc.ToggleSoftDelete(ctx, deletedID)
	require.NoError(t, err)

	page, err := svc.List(ctx, false, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 3, page.PerPage)

	all, err := svc.List(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
	assert.Len(t, all.Data, 5)
}
