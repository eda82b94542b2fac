package models

import (
	"strings"

	"gorm.io/gorm"
)

// WaterRequirement is how thirsty a crop type is.
type WaterRequirement string

const (
	WaterLow    WaterRequirement = "low"
	WaterMedium WaterRequirement = "medium"
	WaterHigh   WaterRequirement = "high"
)

var WaterRequirements = []WaterRequirement{WaterLow, WaterMedium, WaterHigh}

func (w WaterRequirement) Valid() bool {
	for _, known := range WaterRequirements {
		if w == known {
			return true
		}
	}
	return false
}

func (w WaterRequirement) Label() string {
	switch w {
	case WaterLow:
		return "Low"
	case WaterMedium:
		return "Medium"
	case WaterHigh:
		return "High"
	}
	return string(w)
}

type CropType struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	Name              string           `gorm:"size:100;not null;index" json:"name"`
	ScientificName    string           `gorm:"size:150" json:"scientific_name"`
	GrowingSeasonDays int              `gorm:"not null" json:"growing_season_days"`
	WaterRequirement  WaterRequirement `gorm:"size:50;not null;index" json:"water_requirement"`
}

func (t *CropType) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(t.Name) == "" {
		errs["name"] = "this field is required"
	} else if len(t.Name) > 100 {
		errs["name"] = "must be at most 100 characters"
	}
	if len(t.ScientificName) > 150 {
		errs["scientific_name"] = "must be at most 150 characters"
	}
	if t.GrowingSeasonDays <= 0 {
		errs["growing_season_days"] = "must be greater than zero"
	}
	if !t.WaterRequirement.Valid() {
		errs["water_requirement"] = "must be one of low, medium, high"
	}
	return errs.orNil()
}

func (t *CropType) BeforeSave(tx *gorm.DB) error {
	return t.Validate()
}
