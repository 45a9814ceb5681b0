package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnqbao/gau-drop-service/blobstore"
)

func newTestStore(t *testing.T) *blobstore.DiskStore {
	t.Helper()
	store, err := blobstore.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func payload(name, content string) FilePayload {
	return FilePayload{
		Filename:    name,
		Size:        int64(len(content)),
		ContentType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func testNamingContext(title, password string) NamingContext {
	return NamingContext{
		TitleSlug:    Slugify(title),
		PasswordSlug: Slugify(password),
		Timestamp:    time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
		RequestID:    "ab12cd34",
	}
}

func readZipEntries(t *testing.T, store blobstore.Store, archivePath string) map[string]string {
	t.Helper()

	rc, size, err := store.Get(context.Background(), archivePath)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, size, int64(len(data)))

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string)
	for _, f := range zr.File {
		er, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(er)
		require.NoError(t, err)
		er.Close()
		entries[f.Name] = string(content)
	}
	return entries
}

func TestArchiveBundlesAllFiles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	nc := testNamingContext("Report", "secret")
	archivePath, err := archiver.Archive(context.Background(), []FilePayload{
		payload("a.txt", "alpha"),
		payload("b.txt", "bravo"),
	}, nc)
	require.NoError(t, err)

	assert.Equal(t, "uploads/drops/secret_Report_2025-03-14_150926_ab12cd34.zip", archivePath)

	entries := readZipEntries(t, store, archivePath)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries["1_Report_2025-03-14_150926_ab12cd34.txt"])
	assert.Equal(t, "bravo", entries["2_Report_2025-03-14_150926_ab12cd34.txt"])
}

func TestArchiveRemovesSourceBlobs(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	nc := testNamingContext("Report", "")
	archivePath, err := archiver.Archive(context.Background(), []FilePayload{
		payload("a.txt", "alpha"),
	}, nc)
	require.NoError(t, err)

	// Only the archive remains in the upload root
	exists, err := store.Exists(context.Background(), archivePath)
	require.NoError(t, err)
	assert.True(t, exists)

	sourcePath := path.Join("uploads/drops", "1_Report_2025-03-14_150926_ab12cd34.txt")
	exists, err = store.Exists(context.Background(), sourcePath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestArchiveSkipsInvalidPayloads(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	unreadable := FilePayload{
		Filename: "broken.txt",
		Size:     10,
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("upload aborted")
		},
	}

	nc := testNamingContext("Report", "")
	archivePath, err := archiver.Archive(context.Background(), []FilePayload{
		payload("empty.txt", ""), // zero bytes, skipped
		unreadable,               // unreadable, skipped
		payload("ok.txt", "fine"),
	}, nc)
	require.NoError(t, err)

	// Skipped payloads do not consume a sequence index
	entries := readZipEntries(t, store, archivePath)
	require.Len(t, entries, 1)
	assert.Equal(t, "fine", entries["1_Report_2025-03-14_150926_ab12cd34.txt"])
}

func TestArchiveNoValidFiles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	_, err := archiver.Archive(context.Background(), []FilePayload{
		payload("empty.txt", ""),
	}, testNamingContext("Report", ""))
	assert.ErrorIs(t, err, ErrNoValidFiles)
}

func TestArchiveUniquePerRequest(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	// Same title, same second: the request ids keep the paths distinct
	first := NewNamingContext("Report", "secret")
	second := NewNamingContext("Report", "secret")
	second.Timestamp = first.Timestamp

	p1, err := archiver.Archive(context.Background(), []FilePayload{payload("a.txt", "one")}, first)
	require.NoError(t, err)
	p2, err := archiver.Archive(context.Background(), []FilePayload{payload("a.txt", "two")}, second)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestStoreLoose(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	archiver := NewArchiver(store, "uploads/drops", nil, nil)

	relPath, err := archiver.StoreLoose(context.Background(), payload("notes.txt", "loose content"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "uploads/drops/"))
	assert.True(t, strings.HasSuffix(relPath, ".txt"))

	rc, _, err := store.Get(context.Background(), relPath)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "loose content", string(got))
}

func TestStoreLooseEmpty(t *testing.T) {
	t.Parallel()
	archiver := NewArchiver(newTestStore(t), "uploads/drops", nil, nil)

	_, err := archiver.StoreLoose(context.Background(), payload("empty.txt", ""))
	assert.ErrorIs(t, err, ErrNoValidFiles)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Report", "Report"},
		{"My Report 2025", "My-Report-2025"},
		{"../../etc/passwd", "etcpasswd"},
		{"a/b\\c", "abc"},
		{"  trimmed  ", "trimmed"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
