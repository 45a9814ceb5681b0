package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Drop is a single submitted entry: metadata plus the archive holding its
// uploaded files. FilePaths is a JSON array of store-relative paths; it holds
// the archive path after create and any loose files appended by update.
type Drop struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Password    string         `json:"-" gorm:"type:varchar(255)"`
	OwnerIP     string         `json:"ip" gorm:"type:varchar(64)"`
	Fingerprint string         `json:"fingerprint" gorm:"type:varchar(255);index"`
	FilePaths   datatypes.JSON `json:"files" gorm:"type:json;not null"`
	IsDeleted   bool           `json:"is_deleted" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}
