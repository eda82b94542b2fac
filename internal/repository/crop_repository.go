package repository

import (
	"errors"
	"sort"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CropRepository struct {
	db *gorm.DB
}

func NewCropRepository(db *gorm.DB) *CropRepository {
	return &CropRepository{db: db}
}

// StageCount is the number of crops on a farm sitting in one growth stage.
type StageCount struct {
	Stage models.GrowthStage `json:"current_stage"`
	Label string             `json:"label"`
	Count int64              `json:"count"`
}

func (r *CropRepository) Create(crop *models.Crop) error {
	return r.db.Omit(clause.Associations).Create(crop).Error
}

func (r *CropRepository) Update(crop *models.Crop) error {
	return r.db.Omit(clause.Associations).Save(crop).Error
}

// FindForOwner loads a crop through the crop -> farm -> owner chain and
// returns nil when ownerID does not own it.
func (r *CropRepository) FindForOwner(id, ownerID uint) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.
		Joins("JOIN farms ON farms.id = crops.farm_id").
		Where("crops.id = ? AND farms.owner_id = ?", id, ownerID).
		Preload("Farm").
		Preload("CropType").
		First(&crop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &crop, nil
}

func (r *CropRepository) FindByPlanting(farmID, cropTypeID uint, plantedDate time.Time) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.
		Where("farm_id = ? AND crop_type_id = ? AND planted_date = ?", farmID, cropTypeID, models.DateOf(plantedDate)).
		First(&crop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &crop, nil
}

func (r *CropRepository) ListByFarm(farmID uint) ([]models.Crop, error) {
	var crops []models.Crop
	err := r.db.Preload("CropType").
		Where("farm_id = ?", farmID).
		Find(&crops).Error
	return crops, err
}

// areaPlaces is the scale of the area_planted column.
const areaPlaces = 2

// SumAreaByFarm totals area_planted over the farm's crops; no crops is zero.
// sqlite sums NUMERIC columns as floats, so the total is rounded back to the
// column's scale.
func (r *CropRepository) SumAreaByFarm(farmID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&models.Crop{}).
		Select("COALESCE(SUM(area_planted), 0)").
		Where("farm_id = ?", farmID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(areaPlaces), nil
}

// CountByStage groups the farm's crops by stage. Stages without crops are
// left out rather than reported as zero.
func (r *CropRepository) CountByStage(farmID uint) ([]StageCount, error) {
	var counts []StageCount
	err := r.db.Model(&models.Crop{}).
		Select("current_stage AS stage, COUNT(id) AS count").
		Where("farm_id = ?", farmID).
		Group("current_stage").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Stage.Order() < counts[j].Stage.Order()
	})
	for i := range counts {
		counts[i].Label = counts[i].Stage.Label()
	}
	return counts, nil
}

func (r *CropRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Crop{}).
		Joins("JOIN farms ON farms.id = crops.farm_id").
		Where("farms.owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// CropFilter narrows the admin crop listing. Query matches crop type or
// farm name.
type CropFilter struct {
	Query      string
	Stage      models.GrowthStage
	CropTypeID uint
	FarmID     uint
	PlantedOn  *time.Time
}

func (r *CropRepository) filtered(filter CropFilter) *gorm.DB {
	db := r.db.Model(&models.Crop{}).
		Joins("JOIN farms ON farms.id = crops.farm_id").
		Joins("JOIN crop_types ON crop_types.id = crops.crop_type_id")
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		db = db.Where("crop_types.name LIKE ? OR farms.name LIKE ?", pattern, pattern)
	}
	if filter.Stage != "" {
		db = db.Where("crops.current_stage = ?", filter.Stage)
	}
	if filter.CropTypeID != 0 {
		db = db.Where("crops.crop_type_id = ?", filter.CropTypeID)
	}
	if filter.FarmID != 0 {
		db = db.Where("crops.farm_id = ?", filter.FarmID)
	}
	if filter.PlantedOn != nil {
		db = db.Where("crops.planted_date = ?", models.DateOf(*filter.PlantedOn))
	}
	return db
}

func (r *CropRepository) Search(filter CropFilter, page Page) ([]models.Crop, int64, error) {
	var count int64
	if err := r.filtered(filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var crops []models.Crop
	err := page.apply(r.filtered(filter)).
		Preload("Farm").
		Preload("CropType").
		Order("crops.planted_date DESC").
		Find(&crops).Error
	return crops, count, err
}
