package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Farm struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Name      string          `gorm:"size:200;not null" json:"name"`
	OwnerID   uint            `gorm:"not null;index" json:"owner_id"`
	Owner     User            `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Location  string          `gorm:"size:300;not null" json:"location"`
	TotalArea decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_area"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Crops     []Crop          `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	Weather   []WeatherData   `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Farm) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "this field is required"
	} else if len(f.Name) > 200 {
		errs["name"] = "must be at most 200 characters"
	}
	if strings.TrimSpace(f.Location) == "" {
		errs["location"] = "this field is required"
	} else if len(f.Location) > 300 {
		errs["location"] = "must be at most 300 characters"
	}
	if f.OwnerID == 0 {
		errs["owner"] = "this field is required"
	}
	if f.TotalArea.IsNegative() {
		errs["total_area"] = "must not be negative"
	}
	errs.checkDecimal("total_area", f.TotalArea, 10, 2)
	return errs.orNil()
}

func (f *Farm) BeforeSave(tx *gorm.DB) error {
	return f.Validate()
}
