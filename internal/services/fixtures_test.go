package services

import (
	"testing"
	"time"

	"github.com/h4ks-com/croptrack/internal/database"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testNow is mid-afternoon on 2024-03-10 in the test clock's zone.
var testNow = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

type testEnv struct {
	db             *gorm.DB
	clock          Clock
	userRepo       *repository.UserRepository
	farmRepo       *repository.FarmRepository
	cropTypeRepo   *repository.CropTypeRepository
	cropRepo       *repository.CropRepository
	irrigationRepo *repository.IrrigationRepository
	weatherRepo    *repository.WeatherRepository

	accounts   *AccountService
	farms      *FarmService
	cropTypes  *CropTypeService
	crops      *CropService
	irrigation *IrrigationService
	weather    *WeatherService
}

func fixedClock(now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: time.UTC}
}

func setupTestEnv(t *testing.T) *testEnv {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	env := &testEnv{
		db:             db,
		clock:          fixedClock(testNow),
		userRepo:       repository.NewUserRepository(db),
		farmRepo:       repository.NewFarmRepository(db),
		cropTypeRepo:   repository.NewCropTypeRepository(db),
		cropRepo:       repository.NewCropRepository(db),
		irrigationRepo: repository.NewIrrigationRepository(db),
		weatherRepo:    repository.NewWeatherRepository(db),
	}
	env.accounts = NewAccountService(env.userRepo)
	env.farms = NewFarmService(env.farmRepo, env.cropRepo, env.irrigationRepo, env.clock)
	env.cropTypes = NewCropTypeService(env.cropTypeRepo)
	env.crops = NewCropService(env.farmRepo, env.cropRepo, env.cropTypeRepo, env.irrigationRepo, env.clock)
	env.irrigation = NewIrrigationService(env.cropRepo, env.irrigationRepo, env.clock)
	env.weather = NewWeatherService(env.farmRepo, env.weatherRepo)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	user, err := e.accounts.ResolveOwner(username)
	require.NoError(t, err)
	return user
}

func (e *testEnv) farm(t *testing.T, owner *models.User, name string) *models.Farm {
	farm, err := e.farms.CreateFarm(owner.ID, name, "North", decimal.NewFromInt(50))
	require.NoError(t, err)
	return farm
}

func (e *testEnv) cropType(t *testing.T, name string) *models.CropType {
	cropType, err := e.cropTypes.CreateCropType(name, "", 90, models.WaterMedium)
	require.NoError(t, err)
	return cropType
}

func (e *testEnv) crop(t *testing.T, farm *models.Farm, owner *models.User, cropType *models.CropType, area string) *models.Crop {
	a := decimal.RequireFromString(area)
	crop, err := e.crops.AddCrop(farm.ID, owner.ID, CropInput{CropTypeID: cropType.ID, AreaPlanted: &a})
	require.NoError(t, err)
	return crop
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
