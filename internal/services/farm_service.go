package services

import (
	"errors"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrFarmNotFound = errors.New("farm not found")
)

// FarmDetail is everything the farm page shows.
type FarmDetail struct {
	Farm             *models.Farm
	Crops            []models.Crop
	TotalAreaPlanted decimal.Decimal
	CropsByStage     []repository.StageCount
}

// Dashboard is the signed-in owner's overview.
type Dashboard struct {
	Farms             []models.Farm
	TotalCrops        int64
	PendingIrrigation int64
}

type FarmService struct {
	farmRepo       *repository.FarmRepository
	cropRepo       *repository.CropRepository
	irrigationRepo *repository.IrrigationRepository
	clock          Clock
}

func NewFarmService(
	farmRepo *repository.FarmRepository,
	cropRepo *repository.CropRepository,
	irrigationRepo *repository.IrrigationRepository,
	clock Clock,
) *FarmService {
	return &FarmService{
		farmRepo:       farmRepo,
		cropRepo:       cropRepo,
		irrigationRepo: irrigationRepo,
		clock:          clock,
	}
}

func (s *FarmService) CreateFarm(ownerID uint, name, location string, totalArea decimal.Decimal) (*models.Farm, error) {
	farm := &models.Farm{
		Name:      name,
		OwnerID:   ownerID,
		Location:  location,
		TotalArea: totalArea,
	}

	if err := s.farmRepo.Create(farm); err != nil {
		return nil, err
	}

	return farm, nil
}

func (s *FarmService) ListFarms(ownerID uint) ([]models.Farm, error) {
	return s.farmRepo.ListByOwner(ownerID)
}

// GetFarm returns the farm if ownerID owns it. Missing and foreign farms
// both come back as ErrFarmNotFound.
func (s *FarmService) GetFarm(farmID, ownerID uint) (*models.Farm, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	return farm, nil
}

func (s *FarmService) GetFarmDetail(farmID, ownerID uint) (*FarmDetail, error) {
	farm, err := s.GetFarm(farmID, ownerID)
	if err != nil {
		return nil, err
	}

	crops, err := s.cropRepo.ListByFarm(farm.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.cropRepo.SumAreaByFarm(farm.ID)
	if err != nil {
		return nil, err
	}

	byStage, err := s.cropRepo.CountByStage(farm.ID)
	if err != nil {
		return nil, err
	}

	return &FarmDetail{
		Farm:             farm,
		Crops:            crops,
		TotalAreaPlanted: total,
		CropsByStage:     byStage,
	}, nil
}

func (s *FarmService) GetDashboard(ownerID uint) (*Dashboard, error) {
	farms, err := s.farmRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	totalCrops, err := s.cropRepo.CountByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	pending, err := s.irrigationRepo.CountDueForOwner(ownerID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Farms:             farms,
		TotalCrops:        totalCrops,
		PendingIrrigation: pending,
	}, nil
}

func (s *FarmService) SearchFarms(filter repository.FarmFilter, page repository.Page) ([]models.Farm, int64, error) {
	return s.farmRepo.Search(filter, page)
}

func (s *FarmService) DeleteFarm(farmID uint) error {
	deleted, err := s.farmRepo.Delete(farmID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFarmNotFound
	}
	return nil
}
