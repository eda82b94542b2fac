package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeatherData is one manually recorded day of weather for a farm.
type WeatherData struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	FarmID         uint                `gorm:"not null;uniqueIndex:idx_weather_farm_date" json:"farm_id"`
	Farm           Farm                `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	Date           time.Time           `gorm:"type:date;not null;uniqueIndex:idx_weather_farm_date" json:"date"`
	TemperatureMax decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"temperature_max"`
	TemperatureMin decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"temperature_min"`
	Humidity       decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"humidity"`
	Rainfall       decimal.Decimal     `gorm:"type:decimal(6,2);not null;default:0" json:"rainfall"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (WeatherData) TableName() string {
	return "weather_data"
}

func (w *WeatherData) Validate() error {
	errs := FieldErrors{}
	if w.FarmID == 0 {
		errs["farm"] = "this field is required"
	}
	if w.Date.IsZero() {
		errs["date"] = "this field is required"
	}
	if w.Humidity.Valid && (w.Humidity.Decimal.IsNegative() || w.Humidity.Decimal.GreaterThan(decimal.NewFromInt(100))) {
		errs["humidity"] = "must be between 0 and 100"
	}
	if w.Rainfall.IsNegative() {
		errs["rainfall"] = "must not be negative"
	}
	errs.checkDecimal("rainfall", w.Rainfall, 6, 2)
	for field, value := range map[string]decimal.NullDecimal{
		"temperature_max": w.TemperatureMax,
		"temperature_min": w.TemperatureMin,
		"humidity":        w.Humidity,
	} {
		if value.Valid {
			errs.checkDecimal(field, value.Decimal, 5, 2)
		}
	}
	return errs.orNil()
}

func (w *WeatherData) BeforeSave(tx *gorm.DB) error {
	return w.Validate()
}
