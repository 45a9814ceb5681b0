package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tnqbao/gau-drop-service/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Drop{}, &entity.Fingerprint{}, &entity.LoginLog{}))
	return db
}

func seedDrop(t *testing.T, db *gorm.DB, title string, deleted bool, createdAt time.Time) entity.Drop {
	t.Helper()
	drop := entity.Drop{
		ID:          uuid.New(),
		Title:       title,
		Fingerprint: "fp",
		FilePaths:   datatypes.JSON("[]"),
		IsDeleted:   deleted,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&drop).Error)
	return drop
}

func TestDropListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewDropRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedDrop(t, db, "oldest", false, base)
	seedDrop(t, db, "middle", false, base.Add(time.Minute))
	seedDrop(t, db, "newest", false, base.Add(2*time.Minute))

	drops, total, err := repo.List(false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, drops, 3)
	assert.Equal(t, "newest", drops[0].Title)
	assert.Equal(t, "oldest", drops[2].Title)
}

func TestDropListExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewDropRepository(db)

	now := time.Now().UTC()
	seedDrop(t, db, "visible", false, now)
	seedDrop(t, db, "hidden", true, now)

	drops, total, err := repo.List(false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, drops, 1)
	assert.Equal(t, "visible", drops[0].Title)

	drops, total, err = repo.List(true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, drops, 2)
}

func TestDropListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewDropRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedDrop(t, db, "entry", false, base.Add(time.Duration(i)*time.Minute))
	}

	drops, total, err := repo.List(false, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, drops, 2)

	drops, _, err = repo.List(false, 3, 2)
	require.NoError(t, err)
	assert.Len(t, drops, 1)

	// Page below 1 is clamped to the first page
	drops, _, err = repo.List(false, 0, 2)
	require.NoError(t, err)
	assert.Len(t, drops, 2)
}

func TestDropFindSaveDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewDropRepository(db)

	seeded := seedDrop(t, db, "before", false, time.Now().UTC())

	found, err := repo.FindByID(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", found.Title)

	found.Title = "after"
	require.NoError(t, repo.Save(found))

	found, err = repo.FindByID(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Title)

	require.NoError(t, repo.Delete(seeded.ID))
	_, err = repo.FindByID(seeded.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
