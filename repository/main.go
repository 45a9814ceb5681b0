package repository

import (
	"github.com/tnqbao/gau-drop-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	DropRepo        *DropRepository
	FingerprintRepo *FingerprintRepository
	LoginLogRepo    *LoginLogRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = NewRepository(infra.Postgres.DB)
	return repository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DropRepo:        NewDropRepository(db),
		FingerprintRepo: NewFingerprintRepository(db),
		LoginLogRepo:    NewLoginLogRepository(db),
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) BeginTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
