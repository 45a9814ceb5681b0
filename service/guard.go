package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tnqbao/gau-drop-service/entity"
	"github.com/tnqbao/gau-drop-service/infra"
	"github.com/tnqbao/gau-drop-service/repository"
)

const blockedCacheTTL = 10 * time.Minute

// FingerprintGuard gates submissions on a client device token. A token is
// registered on first sight and only an explicit toggle flips its blocked
// state; Check never mutates an existing entry.
type FingerprintGuard struct {
	repo   *repository.FingerprintRepository
	cache  *infra.RedisClient
	logger *infra.LoggerClient
}

func NewFingerprintGuard(repo *repository.FingerprintRepository, cache *infra.RedisClient, logger *infra.LoggerClient) *FingerprintGuard {
	return &FingerprintGuard{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func blockedCacheKey(token string) string {
	return "fingerprint:blocked:" + token
}

// Check looks up the token and returns ErrBlocked when the entry is flagged.
// An unseen token is registered unblocked and allowed through.
func (g *FingerprintGuard) Check(ctx context.Context, token string) error {
	if token == "" {
		return &ValidationError{Fields: map[string]string{"fingerprint": "fingerprint is required"}}
	}

	if g.cache != nil {
		var blocked bool
		if err := g.cache.Get(ctx, blockedCacheKey(token), &blocked); err == nil {
			if blocked {
				return ErrBlocked
			}
			return nil
		}
	}

	fp, err := g.repo.FindByToken(token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up fingerprint: %w", err)
		}

		// First sight: register the token unblocked. A concurrent first
		// submission may hit the unique index, which means someone else
		// registered it and the request is allowed through.
		created := &entity.Fingerprint{
			ID:          uuid.New(),
			Fingerprint: token,
			IsBlocked:   false,
		}
		if createErr := g.repo.Create(created); createErr != nil {
			if existing, findErr := g.repo.FindByToken(token); findErr == nil {
				fp = existing
			} else {
				return fmt.Errorf("failed to register fingerprint: %w", createErr)
			}
		} else {
			fp = created
		}
	}

	g.cacheBlocked(ctx, token, fp.IsBlocked)

	if fp.IsBlocked {
		return ErrBlocked
	}
	return nil
}

// ToggleBlock flips the blocked flag of a seen token. Returns ErrNotFound for
// a token that was never seen.
func (g *FingerprintGuard) ToggleBlock(ctx context.Context, token string) (*entity.Fingerprint, error) {
	fp, err := g.repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	fp.IsBlocked = !fp.IsBlocked
	if err := g.repo.Save(fp); err != nil {
		return nil, fmt.Errorf("failed to update fingerprint: %w", err)
	}

	if g.cache != nil {
		if err := g.cache.Delete(ctx, blockedCacheKey(token)); err != nil && g.logger != nil {
			g.logger.WarningWithContextf(ctx, "[Guard] Failed to invalidate blocked cache for %s: %v", token, err)
		}
	}

	return fp, nil
}

// List returns every guard entry, newest-first.
func (g *FingerprintGuard) List(_ context.Context) ([]entity.Fingerprint, error) {
	return g.repo.FindAll()
}

func (g *FingerprintGuard) cacheBlocked(ctx context.Context, token string, blocked bool) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, blockedCacheKey(token), blocked, blockedCacheTTL); err != nil && g.logger != nil {
		g.logger.WarningWithContextf(ctx, "[Guard] Failed to cache blocked state for %s: %v", token, err)
	}
}
