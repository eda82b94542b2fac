package models

import (
	"time"

	"gorm.io/gorm"
)

type APIToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	TokenID   string    `gorm:"uniqueIndex;not null;size:36" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
