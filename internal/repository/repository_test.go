package repository

import (
	"testing"
	"time"

	"github.com/h4ks-com/croptrack/internal/database"
	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{Username: username}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func createFarm(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Farm {
	farm := &models.Farm{Name: name, Location: "North", OwnerID: owner.ID, TotalArea: decimal.NewFromInt(50)}
	require.NoError(t, NewFarmRepository(db).Create(farm))
	return farm
}

func createCropType(t *testing.T, db *gorm.DB, name string, water models.WaterRequirement) *models.CropType {
	cropType := &models.CropType{Name: name, GrowingSeasonDays: 90, WaterRequirement: water}
	require.NoError(t, NewCropTypeRepository(db).Create(cropType))
	return cropType
}

func createCrop(t *testing.T, db *gorm.DB, farm *models.Farm, cropType *models.CropType, area string, stage models.GrowthStage) *models.Crop {
	crop := &models.Crop{
		FarmID:              farm.ID,
		CropTypeID:          cropType.ID,
		PlantedDate:         testDay,
		AreaPlanted:         decimal.RequireFromString(area),
		CurrentStage:        stage,
		ExpectedHarvestDate: testDay.AddDate(0, 0, 90),
	}
	require.NoError(t, NewCropRepository(db).Create(crop))
	return crop
}

func createSchedule(t *testing.T, db *gorm.DB, crop *models.Crop, at time.Time) *models.IrrigationSchedule {
	schedule := &models.IrrigationSchedule{CropID: crop.ID, ScheduledDate: at.UTC(), DurationMinutes: 30}
	require.NoError(t, NewIrrigationRepository(db).Create(schedule))
	return schedule
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewUserRepository(db)
	alice := createUser(t, db, "alice")

	found, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)

	missing, err := repo.FindByUsername("nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFarmRepository_FindForOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFarmRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	farm := createFarm(t, db, alice, "Green Valley")

	found, err := repo.FindForOwner(farm.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Owner.Username)
	assert.True(t, decimal.NewFromInt(50).Equal(found.TotalArea))

	foreign, err := repo.FindForOwner(farm.ID, bob.ID)
	assert.NoError(t, err)
	assert.Nil(t, foreign)
}

func TestFarmRepository_Search(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFarmRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createFarm(t, db, alice, "Green Valley")
	createFarm(t, db, alice, "Sunny Acres")
	createFarm(t, db, bob, "Riverside")

	farms, total, err := repo.Search(FarmFilter{Owner: "alice"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, farms, 2)

	farms, total, err = repo.Search(FarmFilter{Query: "bob"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Riverside", farms[0].Name)

	farms, total, err = repo.Search(FarmFilter{}, Page{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, farms, 1)
}

func TestFarmRepository_DeleteCascades(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFarmRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	crop := createCrop(t, db, farm, createCropType(t, db, "Tomato", models.WaterHigh), "2.5", models.StageSeed)
	createSchedule(t, db, crop, testDay.Add(6*time.Hour))
	require.NoError(t, NewWeatherRepository(db).Create(&models.WeatherData{FarmID: farm.ID, Date: testDay}))

	deleted, err := repo.Delete(farm.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var crops, schedules, weather int64
	db.Model(&models.Crop{}).Count(&crops)
	db.Model(&models.IrrigationSchedule{}).Count(&schedules)
	db.Model(&models.WeatherData{}).Count(&weather)
	assert.Zero(t, crops)
	assert.Zero(t, schedules)
	assert.Zero(t, weather)

	deleted, err = repo.Delete(farm.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCropRepository_SumAreaByFarm(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCropRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	tomato := createCropType(t, db, "Tomato", models.WaterHigh)

	total, err := repo.SumAreaByFarm(farm.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	createCrop(t, db, farm, tomato, "2.5", models.StageSeed)
	createCrop(t, db, farm, tomato, "1.25", models.StageFlowering)

	total, err = repo.SumAreaByFarm(farm.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.75").Equal(total), "got %s", total)
}

func TestCropRepository_SumAreaByFarmIsExact(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCropRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	other := createFarm(t, db, alice, "Sunny Acres")
	tomato := createCropType(t, db, "Tomato", models.WaterHigh)

	createCrop(t, db, farm, tomato, "0.10", models.StageSeed)
	createCrop(t, db, farm, tomato, "0.20", models.StageSeed)
	createCrop(t, db, other, tomato, "0.05", models.StageSeed)

	total, err := repo.SumAreaByFarm(farm.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.3", total.String())
}

func TestCropRepository_CountByStage(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCropRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	tomato := createCropType(t, db, "Tomato", models.WaterHigh)

	counts, err := repo.CountByStage(farm.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)

	createCrop(t, db, farm, tomato, "1", models.StageFlowering)
	createCrop(t, db, farm, tomato, "1", models.StageSeed)
	createCrop(t, db, farm, tomato, "1", models.StageFlowering)

	counts, err = repo.CountByStage(farm.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, StageCount{Stage: models.StageSeed, Label: "Seed/Planting", Count: 1}, counts[0])
	assert.Equal(t, StageCount{Stage: models.StageFlowering, Label: "Flowering", Count: 2}, counts[1])
}

func TestCropRepository_FindForOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCropRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	farm := createFarm(t, db, alice, "Green Valley")
	crop := createCrop(t, db, farm, createCropType(t, db, "Tomato", models.WaterHigh), "2", models.StageSeed)

	found, err := repo.FindForOwner(crop.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, crop.ID, found.ID)
	assert.Equal(t, "Green Valley", found.Farm.Name)
	assert.Equal(t, "Tomato", found.CropType.Name)
	assert.True(t, testDay.Equal(found.PlantedDate))

	foreign, err := repo.FindForOwner(crop.ID, bob.ID)
	assert.NoError(t, err)
	assert.Nil(t, foreign)

	count, err := repo.CountByOwner(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCropRepository_Search(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCropRepository(db)
	alice := createUser(t, db, "alice")
	valley := createFarm(t, db, alice, "Green Valley")
	acres := createFarm(t, db, alice, "Sunny Acres")
	tomato := createCropType(t, db, "Tomato", models.WaterHigh)
	wheat := createCropType(t, db, "Wheat", models.WaterMedium)
	createCrop(t, db, valley, tomato, "1", models.StageSeed)
	createCrop(t, db, valley, wheat, "1", models.StageHarvest)
	createCrop(t, db, acres, tomato, "1", models.StageHarvest)

	_, total, err := repo.Search(CropFilter{Query: "Tomato"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	crops, total, err := repo.Search(CropFilter{Stage: models.StageHarvest, FarmID: valley.ID}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Wheat", crops[0].CropType.Name)

	planted := testDay
	_, total, err = repo.Search(CropFilter{PlantedOn: &planted, CropTypeID: wheat.ID}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestIrrigationRepository_DueAndPending(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewIrrigationRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	farm := createFarm(t, db, alice, "Green Valley")
	crop := createCrop(t, db, farm, createCropType(t, db, "Tomato", models.WaterHigh), "2", models.StageSeed)

	now := testDay.Add(12 * time.Hour)
	past := createSchedule(t, db, crop, now.Add(-24*time.Hour))
	createSchedule(t, db, crop, now.Add(24*time.Hour))

	due, err := repo.CountDueForOwner(alice.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), due)

	due, err = repo.CountDueForOwner(bob.ID, now)
	require.NoError(t, err)
	assert.Zero(t, due)

	pending, err := repo.ListPendingForOwner(alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, past.ID, pending[0].ID)
	assert.Equal(t, "Tomato", pending[0].Crop.CropType.Name)

	past.MarkCompleted(now)
	require.NoError(t, repo.Update(past))

	pending, err = repo.ListPendingForOwner(alice.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	completed, err := repo.ListCompletedForOwner(alice.ID, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, past.ID, completed[0].ID)

	history, err := repo.ListByCrop(crop.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].ScheduledDate.After(history[1].ScheduledDate))
}

func TestIrrigationRepository_Search(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewIrrigationRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	crop := createCrop(t, db, farm, createCropType(t, db, "Tomato", models.WaterHigh), "2", models.StageSeed)
	done := createSchedule(t, db, crop, testDay.Add(6*time.Hour))
	createSchedule(t, db, crop, testDay.AddDate(0, 0, 1).Add(6*time.Hour))
	done.MarkCompleted(testDay.Add(7 * time.Hour))
	require.NoError(t, repo.Update(done))

	completed := true
	schedules, total, err := repo.Search(IrrigationFilter{Completed: &completed}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, done.ID, schedules[0].ID)

	from := testDay.AddDate(0, 0, 1)
	_, total, err = repo.Search(IrrigationFilter{From: &from, FarmID: farm.ID, Query: "Valley"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWeatherRepository_UniqueFarmDate(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewWeatherRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	other := createFarm(t, db, alice, "Sunny Acres")

	require.NoError(t, repo.Create(&models.WeatherData{FarmID: farm.ID, Date: testDay}))
	require.NoError(t, repo.Create(&models.WeatherData{FarmID: other.ID, Date: testDay}))

	err := repo.Create(&models.WeatherData{FarmID: farm.ID, Date: testDay})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestWeatherRepository_ListByFarm(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewWeatherRepository(db)
	alice := createUser(t, db, "alice")
	farm := createFarm(t, db, alice, "Green Valley")
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.WeatherData{
			FarmID:   farm.ID,
			Date:     testDay.AddDate(0, 0, i),
			Rainfall: decimal.NewFromInt(int64(i)),
		}))
	}

	records, err := repo.ListByFarm(farm.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.True(t, testDay.AddDate(0, 0, 4).Equal(records[0].Date))

	records, err = repo.ListByFarm(farm.ID, testDay.AddDate(0, 0, 1), testDay.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	from := testDay.AddDate(0, 0, 3)
	records, total, err := repo.Search(farm.ID, &from, nil, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Green Valley", records[0].Farm.Name)
}

func TestTokenRepository_Delete(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTokenRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	token := &models.APIToken{UserID: alice.ID, TokenID: "a", Token: "t-a", ExpiresAt: time.Now().Add(time.Hour)}
	expired := &models.APIToken{UserID: alice.ID, TokenID: "b", Token: "t-b", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(token))
	require.NoError(t, repo.Create(expired))

	deleted, err := repo.Delete(token.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	purged, err := repo.PurgeExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	tokens, err := repo.ListByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "a", tokens[0].TokenID)
}

func TestTokenRepository_FindActive(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewTokenRepository(db)
	alice := createUser(t, db, "alice")

	expiresAt := testDay.Add(time.Hour)
	require.NoError(t, repo.Create(&models.APIToken{UserID: alice.ID, TokenID: "a", Token: "t-a", ExpiresAt: expiresAt}))

	found, err := repo.FindActive("t-a", testDay)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.User.Username)

	found, err = repo.FindActive("t-a", expiresAt)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindActive("missing", testDay)
	require.NoError(t, err)
	assert.Nil(t, found)

	purged, err := repo.PurgeExpired(testDay)
	require.NoError(t, err)
	assert.Zero(t, purged)
	purged, err = repo.PurgeExpired(expiresAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
