package repository

import (
	"github.com/tnqbao/gau-drop-service/entity"
	"gorm.io/gorm"
)

type LoginLogRepository struct {
	db *gorm.DB
}

func NewLoginLogRepository(db *gorm.DB) *LoginLogRepository {
	return &LoginLogRepository{db: db}
}

func (r *LoginLogRepository) Create(logEntry *entity.LoginLog) error {
	return r.db.Create(logEntry).Error
}

func (r *LoginLogRepository) FindAll() ([]entity.LoginLog, error) {
	var logs []entity.LoginLog
	err := r.db.Order("created_at DESC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
