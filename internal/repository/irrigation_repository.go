package repository

import (
	"errors"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IrrigationRepository struct {
	db *gorm.DB
}

func NewIrrigationRepository(db *gorm.DB) *IrrigationRepository {
	return &IrrigationRepository{db: db}
}

func (r *IrrigationRepository) Create(schedule *models.IrrigationSchedule) error {
	return r.db.Omit(clause.Associations).Create(schedule).Error
}

func (r *IrrigationRepository) Update(schedule *models.IrrigationSchedule) error {
	return r.db.Omit(clause.Associations).Save(schedule).Error
}

// ownedBy scopes a query on irrigation_schedules to rows whose crop sits on
// a farm owned by ownerID.
func (r *IrrigationRepository) ownedBy(ownerID uint) *gorm.DB {
	return r.db.Model(&models.IrrigationSchedule{}).
		Joins("JOIN crops ON crops.id = irrigation_schedules.crop_id").
		Joins("JOIN farms ON farms.id = crops.farm_id").
		Where("farms.owner_id = ?", ownerID)
}

func (r *IrrigationRepository) FindForOwner(id, ownerID uint) (*models.IrrigationSchedule, error) {
	var schedule models.IrrigationSchedule
	err := r.ownedBy(ownerID).
		Where("irrigation_schedules.id = ?", id).
		Preload("Crop.Farm").
		Preload("Crop.CropType").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *IrrigationRepository) FindByCropAndTime(cropID uint, scheduled time.Time) (*models.IrrigationSchedule, error) {
	var schedule models.IrrigationSchedule
	err := r.db.Where("crop_id = ? AND scheduled_date = ?", cropID, scheduled.UTC()).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// ListByCrop returns the crop's irrigation history, newest first.
func (r *IrrigationRepository) ListByCrop(cropID uint) ([]models.IrrigationSchedule, error) {
	var schedules []models.IrrigationSchedule
	err := r.db.Where("crop_id = ?", cropID).
		Order("scheduled_date DESC").
		Find(&schedules).Error
	return schedules, err
}

// CountDueForOwner counts incomplete schedules whose time has come.
func (r *IrrigationRepository) CountDueForOwner(ownerID uint, now time.Time) (int64, error) {
	var count int64
	err := r.ownedBy(ownerID).
		Where("irrigation_schedules.completed = ? AND irrigation_schedules.scheduled_date <= ?", false, now.UTC()).
		Count(&count).Error
	return count, err
}

// ListPendingForOwner returns every incomplete schedule, earliest first,
// regardless of whether it is due yet.
func (r *IrrigationRepository) ListPendingForOwner(ownerID uint) ([]models.IrrigationSchedule, error) {
	var schedules []models.IrrigationSchedule
	err := r.ownedBy(ownerID).
		Where("irrigation_schedules.completed = ?", false).
		Preload("Crop.Farm").
		Preload("Crop.CropType").
		Order("irrigation_schedules.scheduled_date ASC").
		Find(&schedules).Error
	return schedules, err
}

// ListCompletedForOwner returns schedules completed in [from, to).
func (r *IrrigationRepository) ListCompletedForOwner(ownerID uint, from, to time.Time) ([]models.IrrigationSchedule, error) {
	var schedules []models.IrrigationSchedule
	err := r.ownedBy(ownerID).
		Where("irrigation_schedules.completed = ?", true).
		Where("irrigation_schedules.completed_date >= ? AND irrigation_schedules.completed_date < ?", from.UTC(), to.UTC()).
		Preload("Crop.Farm").
		Preload("Crop.CropType").
		Order("irrigation_schedules.completed_date DESC").
		Find(&schedules).Error
	return schedules, err
}

func (r *IrrigationRepository) ListByFarm(farmID uint) ([]models.IrrigationSchedule, error) {
	var schedules []models.IrrigationSchedule
	err := r.db.Model(&models.IrrigationSchedule{}).
		Joins("JOIN crops ON crops.id = irrigation_schedules.crop_id").
		Where("crops.farm_id = ?", farmID).
		Preload("Crop.CropType").
		Order("irrigation_schedules.scheduled_date ASC").
		Find(&schedules).Error
	return schedules, err
}

// IrrigationFilter narrows the admin irrigation listing. Query matches crop
// type or farm name.
type IrrigationFilter struct {
	Query     string
	Completed *bool
	FarmID    uint
	From      *time.Time
	To        *time.Time
}

func (r *IrrigationRepository) filtered(filter IrrigationFilter) *gorm.DB {
	db := r.db.Model(&models.IrrigationSchedule{}).
		Joins("JOIN crops ON crops.id = irrigation_schedules.crop_id").
		Joins("JOIN farms ON farms.id = crops.farm_id").
		Joins("JOIN crop_types ON crop_types.id = crops.crop_type_id")
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		db = db.Where("crop_types.name LIKE ? OR farms.name LIKE ?", pattern, pattern)
	}
	if filter.Completed != nil {
		db = db.Where("irrigation_schedules.completed = ?", *filter.Completed)
	}
	if filter.FarmID != 0 {
		db = db.Where("crops.farm_id = ?", filter.FarmID)
	}
	if filter.From != nil {
		db = db.Where("irrigation_schedules.scheduled_date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		db = db.Where("irrigation_schedules.scheduled_date < ?", filter.To.UTC())
	}
	return db
}

func (r *IrrigationRepository) Search(filter IrrigationFilter, page Page) ([]models.IrrigationSchedule, int64, error) {
	var count int64
	if err := r.filtered(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var schedules []models.IrrigationSchedule
	err := page.apply(r.filtered(filter)).
		Preload("Crop.Farm").
		Preload("Crop.CropType").
		Order("irrigation_schedules.scheduled_date DESC").
		Find(&schedules).Error
	return schedules, count, err
}
