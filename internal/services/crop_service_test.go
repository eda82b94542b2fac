package services

import (
	"testing"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropService_AddCropDefaults(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	tomato := env.cropType(t, "Tomato")

	crop, err := env.crops.AddCrop(farm.ID, alice.ID, CropInput{
		CropTypeID:  tomato.ID,
		AreaPlanted: dec("2.50"),
	})
	require.NoError(t, err)

	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, today.Equal(crop.PlantedDate))
	assert.True(t, today.AddDate(0, 0, 90).Equal(crop.ExpectedHarvestDate))
	assert.Equal(t, models.StageSeed, crop.CurrentStage)
	assert.Equal(t, farm.ID, crop.FarmID)

	stored, err := env.crops.GetCrop(crop.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, today.Equal(stored.PlantedDate))
	assert.Equal(t, models.StageSeed, stored.CurrentStage)
	assert.True(t, dec("2.5").Equal(stored.AreaPlanted))
}

func TestCropService_AddCropExplicitDates(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	wheat := env.cropType(t, "Wheat")

	planted := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	harvest := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	crop, err := env.crops.AddCrop(farm.ID, alice.ID, CropInput{
		CropTypeID:          wheat.ID,
		PlantedDate:         &planted,
		AreaPlanted:         dec("1"),
		ExpectedHarvestDate: &harvest,
		Notes:               "early sowing",
	})
	require.NoError(t, err)
	assert.True(t, planted.Equal(crop.PlantedDate))
	// harvest before planting is accepted
	assert.True(t, harvest.Equal(crop.ExpectedHarvestDate))
	assert.Equal(t, "early sowing", crop.Notes)
}

func TestCropService_AddCropValidation(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")

	_, err := env.crops.AddCrop(farm.ID, alice.ID, CropInput{CropTypeID: 42})
	var fields models.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "select a valid choice", fields["crop_type_id"])
	assert.Equal(t, "this field is required", fields["area_planted"])

	_, err = env.crops.AddCrop(farm.ID, alice.ID, CropInput{AreaPlanted: dec("-1")})
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "crop_type_id")

	count, err := env.cropRepo.CountByOwner(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCropService_AddCropToForeignFarm(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	farm := env.farm(t, alice, "Green Valley")
	tomato := env.cropType(t, "Tomato")

	_, err := env.crops.AddCrop(farm.ID, bob.ID, CropInput{CropTypeID: tomato.ID, AreaPlanted: dec("1")})
	assert.ErrorIs(t, err, ErrFarmNotFound)

	count, err := env.cropRepo.CountByOwner(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCropService_NewCropForm(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	env.cropType(t, "Wheat")
	env.cropType(t, "Corn")

	form, err := env.crops.NewCropForm(farm.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", form.PlantedDate.Format("2006-01-02"))
	assert.Equal(t, "2024-06-08", form.ExpectedHarvestDate.Format("2006-01-02"))
	require.Len(t, form.CropTypes, 2)
	assert.Equal(t, "Corn", form.CropTypes[0].Name)

	_, err = env.crops.NewCropForm(farm.ID, env.user(t, "bob").ID)
	assert.ErrorIs(t, err, ErrFarmNotFound)
}

func TestCropService_OtherOwnersCropIsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	crop := env.crop(t, env.farm(t, alice, "Green Valley"), alice, env.cropType(t, "Tomato"), "1")

	_, err := env.crops.GetCropDetail(crop.ID, bob.ID)
	assert.ErrorIs(t, err, ErrCropNotFound)

	_, err = env.crops.SetStage(crop.ID, bob.ID, models.StageHarvest)
	assert.ErrorIs(t, err, ErrCropNotFound)
}

func TestCropService_GetCropDetail(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	planted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	crop, err := env.crops.AddCrop(farm.ID, alice.ID, CropInput{
		CropTypeID:  env.cropType(t, "Tomato").ID,
		PlantedDate: &planted,
		AreaPlanted: dec("1"),
	})
	require.NoError(t, err)

	early := testNow.Add(-48 * time.Hour)
	late := testNow.Add(48 * time.Hour)
	_, err = env.irrigation.AddSchedule(crop.ID, alice.ID, IrrigationInput{ScheduledDate: &early, DurationMinutes: 20})
	require.NoError(t, err)
	_, err = env.irrigation.AddSchedule(crop.ID, alice.ID, IrrigationInput{ScheduledDate: &late, DurationMinutes: 20})
	require.NoError(t, err)

	detail, err := env.crops.GetCropDetail(crop.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, detail.DaysSincePlanting)
	assert.Equal(t, "Tomato at Green Valley", detail.Crop.DisplayName())
	require.Len(t, detail.Irrigation, 2)
	assert.True(t, late.Equal(detail.Irrigation[0].ScheduledDate))
}

func TestCropService_SetStage(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	crop := env.crop(t, env.farm(t, alice, "Green Valley"), alice, env.cropType(t, "Tomato"), "1")

	updated, err := env.crops.SetStage(crop.ID, alice.ID, models.StageHarvested)
	require.NoError(t, err)
	assert.Equal(t, models.StageHarvested, updated.CurrentStage)

	// stages may move backwards
	updated, err = env.crops.SetStage(crop.ID, alice.ID, models.StageGermination)
	require.NoError(t, err)
	assert.Equal(t, models.StageGermination, updated.CurrentStage)

	_, err = env.crops.SetStage(crop.ID, alice.ID, "ripe")
	var fields models.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "current_stage")
}

func TestCropService_SearchCrops(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	env.crop(t, farm, alice, env.cropType(t, "Tomato"), "1")
	env.crop(t, farm, alice, env.cropType(t, "Wheat"), "1")

	crops, total, err := env.crops.SearchCrops(repository.CropFilter{Query: "wheat"}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Wheat", crops[0].CropType.Name)
}
