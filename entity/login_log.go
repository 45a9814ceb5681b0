package entity

import (
	"time"

	"github.com/google/uuid"
)

// LoginLog captures a login attempt together with the client environment
// reported by the frontend.
type LoginLog struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username            string    `json:"username" gorm:"type:varchar(255)"`
	Password            string    `json:"password" gorm:"type:varchar(255)"`
	IP                  string    `json:"ip" gorm:"type:varchar(64)"`
	LoginTime           time.Time `json:"login_time"`
	Platform            string    `json:"platform" gorm:"type:varchar(255)"`
	Language            string    `json:"language" gorm:"type:varchar(64)"`
	Online              bool      `json:"online"`
	ScreenWidth         int       `json:"screen_width"`
	ScreenHeight        int       `json:"screen_height"`
	CookiesEnabled      bool      `json:"cookies_enabled"`
	HardwareConcurrency int       `json:"hardware_concurrency"`
	DeviceMemory        int       `json:"device_memory"`
	Brands              string    `json:"brands" gorm:"type:text"`
	Mobile              bool      `json:"mobile"`
	CreatedAt           time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
