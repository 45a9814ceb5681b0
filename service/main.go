package service

import (
	"github.com/tnqbao/gau-drop-service/config"
	"github.com/tnqbao/gau-drop-service/infra"
	"github.com/tnqbao/gau-drop-service/repository"
)

type Service struct {
	Guard    *FingerprintGuard
	Archiver *Archiver
	Drops    *DropService
}

func InitService(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Service {
	guard := NewFingerprintGuard(repo.FingerprintRepo, infra.Redis, infra.Logger)

	var cleanup CleanupPublisher
	if infra.Produce != nil {
		cleanup = infra.Produce.CleanupService
	}

	archiver := NewArchiver(infra.BlobStore, cfg.EnvConfig.Upload.RootPrefix, cleanup, infra.Logger)

	drops := NewDropService(
		repo.DropRepo,
		guard,
		archiver,
		infra.BlobStore,
		cleanup,
		infra.Logger,
		cfg.EnvConfig.Admin.OverrideDeleteKey,
	)

	return &Service{
		Guard:    guard,
		Archiver: archiver,
		Drops:    drops,
	}
}
