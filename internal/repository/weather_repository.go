package repository

import (
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeatherRepository struct {
	db *gorm.DB
}

func NewWeatherRepository(db *gorm.DB) *WeatherRepository {
	return &WeatherRepository{db: db}
}

// Create inserts a new observation. A second row for the same farm and date
// violates the unique index and fails; it never overwrites.
func (r *WeatherRepository) Create(weather *models.WeatherData) error {
	return r.db.Omit(clause.Associations).Create(weather).Error
}

// ListByFarm returns observations newest first. Zero bounds are open.
func (r *WeatherRepository) ListByFarm(farmID uint, from, to time.Time) ([]models.WeatherData, error) {
	db := r.db.Where("farm_id = ?", farmID)
	if !from.IsZero() {
		db = db.Where("date >= ?", models.DateOf(from))
	}
	if !to.IsZero() {
		db = db.Where("date <= ?", models.DateOf(to))
	}

	var records []models.WeatherData
	err := db.Order("date DESC").Find(&records).Error
	return records, err
}

func (r *WeatherRepository) Search(farmID uint, from, to *time.Time, page Page) ([]models.WeatherData, int64, error) {
	filtered := func() *gorm.DB {
		db := r.db.Model(&models.WeatherData{})
		if farmID != 0 {
			db = db.Where("farm_id = ?", farmID)
		}
		if from != nil {
			db = db.Where("date >= ?", models.DateOf(*from))
		}
		if to != nil {
			db = db.Where("date <= ?", models.DateOf(*to))
		}
		return db
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var records []models.WeatherData
	err := page.apply(filtered()).
		Preload("Farm").
		Order("date DESC").
		Find(&records).Error
	return records, count, err
}
