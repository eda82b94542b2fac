package services

import (
	"errors"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrCropNotFound = errors.New("crop not found")
)

// DefaultHarvestWindow is how far after today the add-crop form proposes
// the expected harvest.
const DefaultHarvestWindow = 90

// CropInput carries the caller-editable crop fields. Nil dates take the
// form defaults; the farm always comes from the URL, never from here.
type CropInput struct {
	CropTypeID          uint
	PlantedDate         *time.Time
	AreaPlanted         *decimal.Decimal
	ExpectedHarvestDate *time.Time
	Notes               string
}

// CropForm is the initial state of an empty add-crop form.
type CropForm struct {
	Farm                *models.Farm
	PlantedDate         time.Time
	ExpectedHarvestDate time.Time
	CropTypes           []models.CropType
}

// CropDetail is a crop with its irrigation history, newest first.
type CropDetail struct {
	Crop              *models.Crop
	Irrigation        []models.IrrigationSchedule
	DaysSincePlanting int
}

type CropService struct {
	farmRepo       *repository.FarmRepository
	cropRepo       *repository.CropRepository
	cropTypeRepo   *repository.CropTypeRepository
	irrigationRepo *repository.IrrigationRepository
	clock          Clock
}

func NewCropService(
	farmRepo *repository.FarmRepository,
	cropRepo *repository.CropRepository,
	cropTypeRepo *repository.CropTypeRepository,
	irrigationRepo *repository.IrrigationRepository,
	clock Clock,
) *CropService {
	return &CropService{
		farmRepo:       farmRepo,
		cropRepo:       cropRepo,
		cropTypeRepo:   cropTypeRepo,
		irrigationRepo: irrigationRepo,
		clock:          clock,
	}
}

// NewCropForm returns the add-crop form defaults for one of the owner's farms.
func (s *CropService) NewCropForm(farmID, ownerID uint) (*CropForm, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}

	cropTypes, err := s.cropTypeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	return &CropForm{
		Farm:                farm,
		PlantedDate:         today,
		ExpectedHarvestDate: today.AddDate(0, 0, DefaultHarvestWindow),
		CropTypes:           cropTypes,
	}, nil
}

// AddCrop plants a new crop on a farm the owner holds. The crop starts in
// the seed stage. Nothing is written unless the farm is the owner's and
// the input validates.
func (s *CropService) AddCrop(farmID, ownerID uint, input CropInput) (*models.Crop, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}

	errs := models.FieldErrors{}
	var cropType *models.CropType
	if input.CropTypeID == 0 {
		errs["crop_type_id"] = "this field is required"
	} else {
		cropType, err = s.cropTypeRepo.FindByID(input.CropTypeID)
		if err != nil {
			return nil, err
		}
		if cropType == nil {
			errs["crop_type_id"] = "select a valid choice"
		}
	}
	if input.AreaPlanted == nil {
		errs["area_planted"] = "this field is required"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	today := s.clock.Today()
	planted := today
	if input.PlantedDate != nil {
		planted = models.DateOf(*input.PlantedDate)
	}
	harvest := today.AddDate(0, 0, DefaultHarvestWindow)
	if input.ExpectedHarvestDate != nil {
		harvest = models.DateOf(*input.ExpectedHarvestDate)
	}

	crop := &models.Crop{
		FarmID:              farm.ID,
		CropTypeID:          cropType.ID,
		PlantedDate:         planted,
		AreaPlanted:         *input.AreaPlanted,
		CurrentStage:        models.StageSeed,
		ExpectedHarvestDate: harvest,
		Notes:               input.Notes,
	}

	if err := s.cropRepo.Create(crop); err != nil {
		return nil, err
	}

	crop.Farm = *farm
	crop.CropType = *cropType
	return crop, nil
}

func (s *CropService) GetCrop(cropID, ownerID uint) (*models.Crop, error) {
	crop, err := s.cropRepo.FindForOwner(cropID, ownerID)
	if err != nil {
		return nil, err
	}
	if crop == nil {
		return nil, ErrCropNotFound
	}
	return crop, nil
}

func (s *CropService) GetCropDetail(cropID, ownerID uint) (*CropDetail, error) {
	crop, err := s.GetCrop(cropID, ownerID)
	if err != nil {
		return nil, err
	}

	history, err := s.irrigationRepo.ListByCrop(crop.ID)
	if err != nil {
		return nil, err
	}

	return &CropDetail{
		Crop:              crop,
		Irrigation:        history,
		DaysSincePlanting: crop.DaysSincePlanting(s.clock.Today()),
	}, nil
}

// SetStage moves a crop to any growth stage; stages have no enforced order.
func (s *CropService) SetStage(cropID, ownerID uint, stage models.GrowthStage) (*models.Crop, error) {
	if !stage.Valid() {
		return nil, models.FieldErrors{"current_stage": "unknown growth stage"}
	}

	crop, err := s.GetCrop(cropID, ownerID)
	if err != nil {
		return nil, err
	}

	crop.CurrentStage = stage
	if err := s.cropRepo.Update(crop); err != nil {
		return nil, err
	}

	return crop, nil
}

func (s *CropService) SearchCrops(filter repository.CropFilter, page repository.Page) ([]models.Crop, int64, error) {
	return s.cropRepo.Search(filter, page)
}
