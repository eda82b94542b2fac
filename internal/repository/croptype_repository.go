package repository

import (
	"errors"

	"github.com/h4ks-com/croptrack/internal/models"
	"gorm.io/gorm"
)

type CropTypeRepository struct {
	db *gorm.DB
}

func NewCropTypeRepository(db *gorm.DB) *CropTypeRepository {
	return &CropTypeRepository{db: db}
}

func (r *CropTypeRepository) Create(cropType *models.CropType) error {
	return r.db.Create(cropType).Error
}

func (r *CropTypeRepository) FindByID(id uint) (*models.CropType, error) {
	var cropType models.CropType
	err := r.db.First(&cropType, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cropType, nil
}

func (r *CropTypeRepository) FindByName(name string) (*models.CropType, error) {
	var cropType models.CropType
	err := r.db.Where("name = ?", name).First(&cropType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cropType, nil
}

func (r *CropTypeRepository) FindAll() ([]models.CropType, error) {
	var cropTypes []models.CropType
	err := r.db.Order("name ASC").Find(&cropTypes).Error
	return cropTypes, err
}

// Search matches name or scientific name; an empty water requirement
// leaves that filter off.
func (r *CropTypeRepository) Search(query string, water models.WaterRequirement) ([]models.CropType, error) {
	db := r.db.Model(&models.CropType{})
	if query != "" {
		pattern := likePattern(query)
		db = db.Where("name LIKE ? OR scientific_name LIKE ?", pattern, pattern)
	}
	if water != "" {
		db = db.Where("water_requirement = ?", water)
	}

	var cropTypes []models.CropType
	err := db.Order("name ASC").Find(&cropTypes).Error
	return cropTypes, err
}
