package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"" json:"email,omitempty"`
	Farms     []Farm     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	APITokens []APIToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
