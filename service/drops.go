package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tnqbao/gau-drop-service/blobstore"
	"github.com/tnqbao/gau-drop-service/entity"
	"github.com/tnqbao/gau-drop-service/infra"
	"github.com/tnqbao/gau-drop-service/repository"
	"github.com/tnqbao/gau-drop-service/utils"
)

type CreateDropInput struct {
	Title       string
	Description string
	Password    string
	Fingerprint string
	OwnerIP     string
	Files       []FilePayload
}

type UpdateDropInput struct {
	Title       *string
	Description *string
	Password    *string
	Files       []FilePayload
}

// DropPage is the paginated list envelope.
type DropPage struct {
	Data        []entity.Drop `json:"data"`
	Total       int64         `json:"total"`
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
	PerPage     int           `json:"per_page"`
}

// DropService owns the drop lifecycle: create gated by the fingerprint guard
// and archived through the Archiver, update appending loose files, the
// soft-delete toggle relocating blobs, hard delete removing row and blobs.
type DropService struct {
	drops             *repository.DropRepository
	guard             *FingerprintGuard
	archiver          *Archiver
	store             blobstore.Store
	cleanup           CleanupPublisher
	logger            *infra.LoggerClient
	overrideDeleteKey string
	locks             recordLocks
}

func NewDropService(
	drops *repository.DropRepository,
	guard *FingerprintGuard,
	archiver *Archiver,
	store blobstore.Store,
	cleanup CleanupPublisher,
	logger *infra.LoggerClient,
	overrideDeleteKey string,
) *DropService {
	return &DropService{
		drops:             drops,
		guard:             guard,
		archiver:          archiver,
		store:             store,
		cleanup:           cleanup,
		logger:            logger,
		overrideDeleteKey: overrideDeleteKey,
	}
}

// Create validates the input, runs the fingerprint guard and, when files are
// attached, archives them into a single zip whose path becomes the record's
// only file path. Guard and validation failures abort before any storage
// mutation.
func (s *DropService) Create(ctx context.Context, in CreateDropInput) (*entity.Drop, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	if err := s.guard.Check(ctx, in.Fingerprint); err != nil {
		return nil, err
	}

	filePaths := []string{}
	if len(in.Files) > 0 {
		nc := NewNamingContext(in.Title, in.Password)
		archivePath, err := s.archiver.Archive(ctx, in.Files, nc)
		if err != nil {
			return nil, err
		}
		filePaths = []string{archivePath}
	}

	drop := &entity.Drop{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Password:    in.Password,
		OwnerIP:     in.OwnerIP,
		Fingerprint: in.Fingerprint,
		FilePaths:   encodePaths(filePaths),
	}

	if err := s.drops.Create(drop); err != nil {
		return nil, fmt.Errorf("failed to persist drop: %w", err)
	}
	return drop, nil
}

func (s *DropService) Read(_ context.Context, id uuid.UUID) (*entity.Drop, error) {
	drop, err := s.drops.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load drop: %w", err)
	}
	return drop, nil
}

func (s *DropService) List(_ context.Context, includeDeleted bool, page, perPage int) (*DropPage, error) {
	drops, total, err := s.drops.List(includeDeleted, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list drops: %w", err)
	}

	result := &DropPage{
		Data:  drops,
		Total: total,
	}
	if perPage > 0 {
		if page < 1 {
			page = 1
		}
		result.CurrentPage = page
		result.PerPage = perPage
		result.LastPage = int((total + int64(perPage) - 1) / int64(perPage))
		if result.LastPage < 1 {
			result.LastPage = 1
		}
	} else {
		result.CurrentPage = 1
		result.PerPage = len(drops)
		result.LastPage = 1
	}
	return result, nil
}

// Update merges the provided scalar fields over the stored record and stores
// any new files individually, appending their paths. Update never
// re-archives; that asymmetry with Create is intentional.
func (s *DropService) Update(ctx context.Context, id uuid.UUID, in UpdateDropInput) (*entity.Drop, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	drop, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" || len(*in.Title) > 255 {
			return nil, &ValidationError{Fields: map[string]string{"title": "title must be between 1 and 255 characters"}}
		}
		drop.Title = *in.Title
	}
	if in.Description != nil {
		drop.Description = *in.Description
	}
	if in.Password != nil {
		drop.Password = *in.Password
	}

	paths := decodePaths(drop.FilePaths)
	var added []string
	for _, f := range in.Files {
		relPath, err := s.archiver.StoreLoose(ctx, f)
		if err != nil {
			if errors.Is(err, ErrNoValidFiles) {
				s.logf(ctx, "[Drop] Skipping empty upload '%s' on update of %s", f.Filename, id)
				continue
			}
			s.removeBlobs(ctx, id, added, "update rollback")
			return nil, err
		}
		added = append(added, relPath)
	}
	paths = append(paths, added...)
	drop.FilePaths = encodePaths(paths)

	if err := s.drops.Save(drop); err != nil {
		s.removeBlobs(ctx, id, added, "update rollback")
		return nil, fmt.Errorf("failed to update drop: %w", err)
	}
	return drop, nil
}

// ToggleSoftDelete flips IsDeleted and relocates every referenced blob into
// or out of the delete/ sub-prefix. A blob missing from the store is logged
// and skipped, but its would-be new path still lands in the updated list so
// a later restore round-trips.
func (s *DropService) ToggleSoftDelete(ctx context.Context, id uuid.UUID) (*entity.Drop, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	drop, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	paths := decodePaths(drop.FilePaths)
	newPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		var np string
		if drop.IsDeleted {
			np = blobstore.RestoredPath(p)
		} else {
			np = blobstore.DeletedPath(p)
		}

		if err := s.store.Move(ctx, p, np); err != nil {
			if errors.Is(err, blobstore.ErrNotExist) {
				s.logf(ctx, "[Drop] Blob %s missing during soft-delete toggle of %s", p, id)
			} else {
				s.logf(ctx, "[Drop] Failed to move blob %s to %s: %v", p, np, err)
			}
		}
		newPaths = append(newPaths, np)
	}

	drop.IsDeleted = !drop.IsDeleted
	drop.FilePaths = encodePaths(newPaths)

	if err := s.drops.Save(drop); err != nil {
		return nil, fmt.Errorf("failed to update drop: %w", err)
	}
	return drop, nil
}

// HardDelete removes the row and every referenced blob. The credential must
// match the record's password or the configured operator override, both
// compared constant-time.
func (s *DropService) HardDelete(ctx context.Context, id uuid.UUID, credential string) (*entity.Drop, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	drop, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	authorized := utils.SecureCompare(credential, drop.Password) ||
		(s.overrideDeleteKey != "" && utils.SecureCompare(credential, s.overrideDeleteKey))
	if !authorized {
		return nil, ErrForbidden
	}

	s.removeBlobs(ctx, id, decodePaths(drop.FilePaths), "hard delete")

	if err := s.drops.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete drop: %w", err)
	}
	return drop, nil
}

// Download streams the first referenced blob. Returns ErrNoContent when no
// files are stored and ErrMissingBlob when the path no longer resolves.
func (s *DropService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, string, error) {
	drop, err := s.Read(ctx, id)
	if err != nil {
		return nil, 0, "", err
	}

	paths := decodePaths(drop.FilePaths)
	if len(paths) == 0 {
		return nil, 0, "", ErrNoContent
	}

	rc, size, err := s.store.Get(ctx, paths[0])
	if err != nil {
		if errors.Is(err, blobstore.ErrNotExist) {
			return nil, 0, "", ErrMissingBlob
		}
		return nil, 0, "", fmt.Errorf("failed to open blob %s: %w", paths[0], err)
	}
	return rc, size, path.Base(paths[0]), nil
}

// removeBlobs deletes blobs best-effort, publishing persistent failures to
// the cleanup queue.
func (s *DropService) removeBlobs(ctx context.Context, id uuid.UUID, paths []string, reason string) {
	var failed []string
	for _, p := range paths {
		if err := s.store.Remove(ctx, p); err != nil {
			s.logf(ctx, "[Drop] Failed to remove blob %s (%s): %v", p, reason, err)
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 && s.cleanup != nil {
		if err := s.cleanup.PublishCleanup(ctx, id.String(), failed, reason); err != nil {
			s.logf(ctx, "[Drop] Failed to publish cleanup job for %d blobs: %v", len(failed), err)
		}
	}
}

func (s *DropService) logf(ctx context.Context, format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.WarningWithContextf(ctx, format, args...)
	}
}

func validateCreate(in CreateDropInput) error {
	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "title is required"
	} else if len(in.Title) > 255 {
		fields["title"] = "title must not exceed 255 characters"
	}
	if len(in.Description) > 255 {
		fields["description"] = "description must not exceed 255 characters"
	}
	if len(in.Password) > 255 {
		fields["password"] = "password must not exceed 255 characters"
	}
	if in.Fingerprint == "" {
		fields["fingerprint"] = "fingerprint is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func encodePaths(paths []string) datatypes.JSON {
	if paths == nil {
		paths = []string{}
	}
	data, _ := json.Marshal(paths)
	return datatypes.JSON(data)
}

func decodePaths(j datatypes.JSON) []string {
	var paths []string
	if len(j) > 0 {
		_ = json.Unmarshal(j, &paths)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths
}
