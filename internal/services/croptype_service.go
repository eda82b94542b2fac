package services

import (
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
)

type CropTypeService struct {
	cropTypeRepo *repository.CropTypeRepository
}

func NewCropTypeService(cropTypeRepo *repository.CropTypeRepository) *CropTypeService {
	return &CropTypeService{cropTypeRepo: cropTypeRepo}
}

// ListCropTypes is the public growing guide: every crop type, unscoped.
func (s *CropTypeService) ListCropTypes() ([]models.CropType, error) {
	return s.cropTypeRepo.FindAll()
}

func (s *CropTypeService) SearchCropTypes(query string, water models.WaterRequirement) ([]models.CropType, error) {
	return s.cropTypeRepo.Search(query, water)
}

func (s *CropTypeService) CreateCropType(name, scientificName string, growingSeasonDays int, water models.WaterRequirement) (*models.CropType, error) {
	cropType := &models.CropType{
		Name:              name,
		ScientificName:    scientificName,
		GrowingSeasonDays: growingSeasonDays,
		WaterRequirement:  water,
	}

	if err := s.cropTypeRepo.Create(cropType); err != nil {
		return nil, err
	}

	return cropType, nil
}
