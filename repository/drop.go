package repository

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drop-service/entity"
	"gorm.io/gorm"
)

type DropRepository struct {
	db *gorm.DB
}

func NewDropRepository(db *gorm.DB) *DropRepository {
	return &DropRepository{db: db}
}

func (r *DropRepository) Create(drop *entity.Drop) error {
	return r.db.Create(drop).Error
}

func (r *DropRepository) FindByID(id uuid.UUID) (*entity.Drop, error) {
	var drop entity.Drop
	err := r.db.Where("id = ?", id).First(&drop).Error
	if err != nil {
		return nil, err
	}
	return &drop, nil
}

// List returns drops newest-first. When includeDeleted is false soft-deleted
// rows are filtered out. page is 1-based; perPage <= 0 disables slicing.
func (r *DropRepository) List(includeDeleted bool, page, perPage int) ([]entity.Drop, int64, error) {
	query := r.db.Model(&entity.Drop{})
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if perPage > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * perPage).Limit(perPage)
	}

	var drops []entity.Drop
	if err := query.Find(&drops).Error; err != nil {
		return nil, 0, err
	}
	return drops, total, nil
}

func (r *DropRepository) Save(drop *entity.Drop) error {
	return r.db.Save(drop).Error
}

func (r *DropRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Drop{}, "id = ?", id).Error
}
