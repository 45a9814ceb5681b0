package repository

import (
	"github.com/tnqbao/gau-drop-service/entity"
	"gorm.io/gorm"
)

type FingerprintRepository struct {
	db *gorm.DB
}

func NewFingerprintRepository(db *gorm.DB) *FingerprintRepository {
	return &FingerprintRepository{db: db}
}

func (r *FingerprintRepository) Create(fp *entity.Fingerprint) error {
	return r.db.Create(fp).Error
}

func (r *FingerprintRepository) FindByToken(token string) (*entity.Fingerprint, error) {
	var fp entity.Fingerprint
	err := r.db.Where("fingerprint = ?", token).First(&fp).Error
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

func (r *FingerprintRepository) FindAll() ([]entity.Fingerprint, error) {
	var fps []entity.Fingerprint
	err := r.db.Order("created_at DESC").Find(&fps).Error
	if err != nil {
		return nil, err
	}
	return fps, nil
}

func (r *FingerprintRepository) Save(fp *entity.Fingerprint) error {
	return r.db.Save(fp).Error
}
