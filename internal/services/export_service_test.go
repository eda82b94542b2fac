package services

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExportTest(t *testing.T) (*testEnv, *ExportService) {
	env := setupTestEnv(t)
	exportService := NewExportService(env.farmRepo, env.cropRepo, env.irrigationRepo, env.weatherRepo, "test-signing-key-32-characters!!", env.clock)
	return env, exportService
}

func TestExportService_ExportFarm(t *testing.T) {
	env, exportService := setupExportTest(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	crop := env.crop(t, farm, alice, env.cropType(t, "Tomato"), "2.5")
	schedule, err := env.irrigation.AddSchedule(crop.ID, alice.ID, IrrigationInput{DurationMinutes: 30, WaterAmountLiters: dec("100")})
	require.NoError(t, err)
	_, err = env.irrigation.CompleteIrrigation(schedule.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.weather.RecordWeather(farm.ID, alice.ID, WeatherInput{Date: testNow, Rainfall: dec("4.2")})
	require.NoError(t, err)

	report, err := exportService.ExportFarm(farm.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Valley", report.FarmName)
	assert.Equal(t, "alice", report.Owner)
	assert.True(t, dec("2.5").Equal(report.TotalAreaPlanted))
	require.Len(t, report.Crops, 1)
	assert.Equal(t, "Tomato", report.Crops[0].CropType)
	assert.Equal(t, "2024-03-10", report.Crops[0].PlantedDate)
	require.Len(t, report.Irrigation, 1)
	assert.True(t, report.Irrigation[0].Completed)
	require.Len(t, report.Weather, 1)
	assert.Equal(t, "2024-03-10", report.Weather[0].Date)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.NotEmpty(t, report.Signature)
}

func TestExportService_ExportForeignFarm(t *testing.T) {
	env, exportService := setupExportTest(t)
	farm := env.farm(t, env.user(t, "alice"), "Green Valley")

	_, err := exportService.ExportFarm(farm.ID, env.user(t, "bob").ID)
	assert.ErrorIs(t, err, ErrFarmNotFound)
}

func TestExportService_VerifyReport(t *testing.T) {
	env, exportService := setupExportTest(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	env.crop(t, farm, alice, env.cropType(t, "Tomato"), "2.5")

	report, err := exportService.ExportFarm(farm.ID, alice.ID)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	valid, err := exportService.VerifyReport(data)
	require.NoError(t, err)
	assert.True(t, valid)

	report.FarmName = "Tampered Valley"
	valid, err = exportService.VerifyReportData(report)
	require.NoError(t, err)
	assert.False(t, valid)

	report.Signature = ""
	_, err = exportService.VerifyReportData(report)
	assert.ErrorIs(t, err, ErrInvalidReport)

	_, err = exportService.VerifyReport([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestExportService_VerifyWithDifferentKey(t *testing.T) {
	env, exportService := setupExportTest(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")

	report, err := exportService.ExportFarm(farm.ID, alice.ID)
	require.NoError(t, err)

	other := NewExportService(env.farmRepo, env.cropRepo, env.irrigationRepo, env.weatherRepo, "another-key", env.clock)
	valid, err := other.VerifyReportData(report)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestExportService_WriteWorkbook(t *testing.T) {
	env, exportService := setupExportTest(t)
	alice := env.user(t, "alice")
	farm := env.farm(t, alice, "Green Valley")
	crop := env.crop(t, farm, alice, env.cropType(t, "Tomato"), "2.5")
	later := testNow.Add(time.Hour)
	_, err := env.irrigation.AddSchedule(crop.ID, alice.ID, IrrigationInput{ScheduledDate: &later, DurationMinutes: 30})
	require.NoError(t, err)

	report, err := exportService.ExportFarm(farm.ID, alice.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportService.WriteWorkbook(report, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Farm", "Crops", "Irrigation", "Weather"}, f.GetSheetList())

	name, err := f.GetCellValue("Farm", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Green Valley", name)

	cropName, err := f.GetCellValue("Crops", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Tomato", cropName)

	liters, err := f.GetCellValue("Irrigation", "E2")
	require.NoError(t, err)
	assert.Empty(t, liters)

	rows, err := f.GetRows("Weather")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
