package entity

import (
	"time"

	"github.com/google/uuid"
)

// Fingerprint is a guard entry keyed by an opaque client device token.
// Created lazily on first submission; only the block toggle mutates it.
type Fingerprint struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Fingerprint string    `json:"fingerprint" gorm:"type:varchar(255);uniqueIndex;not null"`
	IsBlocked   bool      `json:"is_blocked" gorm:"not null;default:false"`
	Name        string    `json:"name,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
