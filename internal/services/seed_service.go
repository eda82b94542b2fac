package services

import (
	"fmt"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SampleUsername owns the seeded farms.
const SampleUsername = "farmer"

// SeedResult counts the rows a seed run actually created.
type SeedResult struct {
	CropTypes           int
	Users               int
	Farms               int
	Crops               int
	IrrigationSchedules int
}

type sampleCropType struct {
	name           string
	scientificName string
	seasonDays     int
	water          models.WaterRequirement
}

var sampleCropTypes = []sampleCropType{
	{"Tomato", "Solanum lycopersicum", 80, models.WaterHigh},
	{"Wheat", "Triticum aestivum", 120, models.WaterMedium},
	{"Corn", "Zea mays", 100, models.WaterMedium},
	{"Rice", "Oryza sativa", 150, models.WaterHigh},
	{"Potato", "Solanum tuberosum", 90, models.WaterMedium},
	{"Carrot", "Daucus carota", 70, models.WaterLow},
}

var sampleFarms = []struct {
	name     string
	location string
	area     string
}{
	{"Green Valley Farm", "California, USA", "50.00"},
	{"Sunrise Agriculture", "Texas, USA", "75.50"},
}

var sampleCrops = []struct {
	cropType   string
	plantedAgo int
	area       string
	stage      models.GrowthStage
	harvestIn  int
	notes      string
}{
	{"Tomato", 30, "5.00", models.StageVegetative, 50, "Growing well, regular watering needed"},
	{"Wheat", 60, "15.00", models.StageFlowering, 60, "Good growth, monitor for pests"},
	{"Corn", 45, "10.00", models.StageVegetative, 55, "Healthy plants, increase watering frequency"},
}

type SeedService struct {
	db    *gorm.DB
	clock Clock
	log   *zap.Logger
}

func NewSeedService(db *gorm.DB, clock Clock, log *zap.Logger) *SeedService {
	return &SeedService{db: db, clock: clock, log: log}
}

// Populate loads the sample crop types, user, farms, crops and irrigation
// schedules. Rows that already exist are left alone, so running it twice
// creates nothing the second time.
func (s *SeedService) Populate() (*SeedResult, error) {
	result := &SeedResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cropTypeRepo := repository.NewCropTypeRepository(tx)
		userRepo := repository.NewUserRepository(tx)
		farmRepo := repository.NewFarmRepository(tx)
		cropRepo := repository.NewCropRepository(tx)
		irrigationRepo := repository.NewIrrigationRepository(tx)

		for _, sample := range sampleCropTypes {
			existing, err := cropTypeRepo.FindByName(sample.name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			cropType := &models.CropType{
				Name:              sample.name,
				ScientificName:    sample.scientificName,
				GrowingSeasonDays: sample.seasonDays,
				WaterRequirement:  sample.water,
			}
			if err := cropTypeRepo.Create(cropType); err != nil {
				return fmt.Errorf("create crop type %s: %w", sample.name, err)
			}
			result.CropTypes++
			s.log.Info("Created crop type", zap.String("name", cropType.Name))
		}

		user, err := userRepo.FindByUsername(SampleUsername)
		if err != nil {
			return err
		}
		if user == nil {
			user = &models.User{Username: SampleUsername, Email: "farmer@example.com"}
			if err := userRepo.Create(user); err != nil {
				return fmt.Errorf("create sample user: %w", err)
			}
			result.Users++
			s.log.Info("Created sample user", zap.String("username", user.Username))
		}

		var firstFarm *models.Farm
		for _, sample := range sampleFarms {
			farm, err := farmRepo.FindByNameForOwner(sample.name, user.ID)
			if err != nil {
				return err
			}
			if farm == nil {
				farm = &models.Farm{
					Name:      sample.name,
					OwnerID:   user.ID,
					Location:  sample.location,
					TotalArea: decimal.RequireFromString(sample.area),
				}
				if err := farmRepo.Create(farm); err != nil {
					return fmt.Errorf("create farm %s: %w", sample.name, err)
				}
				result.Farms++
				s.log.Info("Created farm", zap.String("name", farm.Name))
			}
			if firstFarm == nil {
				firstFarm = farm
			}
		}

		today := s.clock.Today()
		for _, sample := range sampleCrops {
			cropType, err := cropTypeRepo.FindByName(sample.cropType)
			if err != nil {
				return err
			}
			if cropType == nil {
				return fmt.Errorf("crop type %s missing", sample.cropType)
			}

			planted := today.AddDate(0, 0, -sample.plantedAgo)
			crop, err := cropRepo.FindByPlanting(firstFarm.ID, cropType.ID, planted)
			if err != nil {
				return err
			}
			if crop != nil {
				continue
			}

			crop = &models.Crop{
				FarmID:              firstFarm.ID,
				CropTypeID:          cropType.ID,
				PlantedDate:         planted,
				AreaPlanted:         decimal.RequireFromString(sample.area),
				CurrentStage:        sample.stage,
				ExpectedHarvestDate: today.AddDate(0, 0, sample.harvestIn),
				Notes:               sample.notes,
			}
			if err := cropRepo.Create(crop); err != nil {
				return fmt.Errorf("create crop %s: %w", sample.cropType, err)
			}
			result.Crops++
			s.log.Info("Created crop", zap.String("crop_type", cropType.Name), zap.String("farm", firstFarm.Name))

			created, err := s.seedIrrigation(irrigationRepo, crop, cropType.Name)
			if err != nil {
				return err
			}
			result.IrrigationSchedules += created
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SeedService) seedIrrigation(repo *repository.IrrigationRepository, crop *models.Crop, cropName string) (int, error) {
	created := 0
	now := s.clock.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		scheduled := now.Add(time.Duration(i+1)*24*time.Hour + 6*time.Hour)
		existing, err := repo.FindByCropAndTime(crop.ID, scheduled)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		schedule := &models.IrrigationSchedule{
			CropID:            crop.ID,
			ScheduledDate:     scheduled,
			DurationMinutes:   30,
			WaterAmountLiters: decimal.NewNullDecimal(decimal.NewFromInt(100)),
			Notes:             fmt.Sprintf("Regular irrigation schedule for %s", cropName),
		}
		if err := repo.Create(schedule); err != nil {
			return created, fmt.Errorf("create irrigation for %s: %w", cropName, err)
		}
		created++
	}
	return created, nil
}
