package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IrrigationSchedule struct {
	ID                uint                `gorm:"primarykey" json:"id"`
	CropID            uint                `gorm:"not null;index" json:"crop_id"`
	Crop              Crop                `gorm:"foreignKey:CropID;constraint:OnDelete:CASCADE" json:"-"`
	ScheduledDate     time.Time           `gorm:"not null;index" json:"scheduled_date"`
	DurationMinutes   int                 `gorm:"not null" json:"duration_minutes"`
	WaterAmountLiters decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"water_amount_liters"`
	Completed         bool                `gorm:"not null;default:false;index" json:"completed"`
	CompletedDate     *time.Time          `gorm:"index" json:"completed_date"`
	Notes             string              `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (s *IrrigationSchedule) Validate() error {
	errs := FieldErrors{}
	if s.CropID == 0 {
		errs["crop"] = "this field is required"
	}
	if s.ScheduledDate.IsZero() {
		errs["scheduled_date"] = "this field is required"
	}
	if s.DurationMinutes <= 0 {
		errs["duration_minutes"] = "must be greater than zero"
	}
	if s.WaterAmountLiters.Valid && s.WaterAmountLiters.Decimal.IsNegative() {
		errs["water_amount_liters"] = "must not be negative"
	}
	if s.WaterAmountLiters.Valid {
		errs.checkDecimal("water_amount_liters", s.WaterAmountLiters.Decimal, 10, 2)
	}
	if s.CompletedDate != nil && !s.Completed {
		errs["completed_date"] = "only set on completed schedules"
	}
	return errs.orNil()
}

func (s *IrrigationSchedule) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}

// MarkCompleted flags the schedule done and stamps the completion time,
// overwriting any earlier stamp.
func (s *IrrigationSchedule) MarkCompleted(at time.Time) {
	stamp := at.UTC()
	s.Completed = true
	s.CompletedDate = &stamp
}
