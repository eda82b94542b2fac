package repository

import (
	"errors"

	"github.com/h4ks-com/croptrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) Create(farm *models.Farm) error {
	return r.db.Omit(clause.Associations).Create(farm).Error
}

// FindForOwner returns the farm only when ownerID owns it.
func (r *FarmRepository) FindForOwner(id, ownerID uint) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.Preload("Owner").Where("id = ? AND owner_id = ?", id, ownerID).First(&farm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepository) FindByID(id uint) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.Preload("Owner").First(&farm, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepository) FindByNameForOwner(name string, ownerID uint) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.Where("name = ? AND owner_id = ?", name, ownerID).First(&farm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepository) ListByOwner(ownerID uint) ([]models.Farm, error) {
	var farms []models.Farm
	err := r.db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&farms).Error
	return farms, err
}

// FarmFilter narrows the admin farm listing. Query matches farm name,
// location or owner username.
type FarmFilter struct {
	Query string
	Owner string
}

func (r *FarmRepository) filtered(filter FarmFilter) *gorm.DB {
	db := r.db.Model(&models.Farm{}).Joins("JOIN users ON users.id = farms.owner_id")
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		db = db.Where("farms.name LIKE ? OR farms.location LIKE ? OR users.username LIKE ?", pattern, pattern, pattern)
	}
	if filter.Owner != "" {
		db = db.Where("users.username = ?", filter.Owner)
	}
	return db
}

func (r *FarmRepository) Search(filter FarmFilter, page Page) ([]models.Farm, int64, error) {
	var count int64
	if err := r.filtered(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var farms []models.Farm
	err := page.apply(r.filtered(filter)).
		Preload("Owner").
		Order("farms.created_at DESC").
		Find(&farms).Error
	return farms, count, err
}

// Delete hard-deletes the farm; crops, irrigation schedules and weather rows
// go with it through the foreign keys.
func (r *FarmRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Farm{}, id)
	return result.RowsAffected > 0, result.Error
}
