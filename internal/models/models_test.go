package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	require.Error(t, err)
	fields, ok := err.(FieldErrors)
	require.True(t, ok, "expected FieldErrors, got %T", err)
	return fields
}

func TestFarm_Validate(t *testing.T) {
	valid := Farm{Name: "Green Valley", Location: "North", OwnerID: 1, TotalArea: decimal.NewFromInt(50)}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		farm  Farm
		field string
	}{
		{"missing name", Farm{Location: "North", OwnerID: 1}, "name"},
		{"blank location", Farm{Name: "A", Location: "  ", OwnerID: 1}, "location"},
		{"missing owner", Farm{Name: "A", Location: "North"}, "owner"},
		{"negative area", Farm{Name: "A", Location: "North", OwnerID: 1, TotalArea: decimal.NewFromInt(-1)}, "total_area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldErrors(t, tt.farm.Validate())
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCropType_Validate(t *testing.T) {
	valid := CropType{Name: "Tomato", GrowingSeasonDays: 80, WaterRequirement: WaterHigh}
	assert.NoError(t, valid.Validate())

	fields := fieldErrors(t, (&CropType{Name: "Tomato", WaterRequirement: "lots"}).Validate())
	assert.Contains(t, fields, "growing_season_days")
	assert.Contains(t, fields, "water_requirement")
}

func TestWaterRequirement(t *testing.T) {
	assert.True(t, WaterMedium.Valid())
	assert.False(t, WaterRequirement("").Valid())
	assert.Equal(t, "High", WaterHigh.Label())
}

func TestGrowthStage(t *testing.T) {
	assert.Len(t, GrowthStages, 7)
	for i, stage := range GrowthStages {
		assert.True(t, stage.Valid())
		assert.Equal(t, i, stage.Order())
	}
	assert.False(t, GrowthStage("ripe").Valid())
	assert.Equal(t, "Ready for Harvest", StageHarvest.Label())
}

func TestCrop_Validate(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	crop := Crop{
		FarmID:              1,
		CropTypeID:          1,
		PlantedDate:         day,
		ExpectedHarvestDate: day.AddDate(0, 0, 90),
		AreaPlanted:         decimal.RequireFromString("2.5"),
		CurrentStage:        StageSeed,
	}
	assert.NoError(t, crop.Validate())

	crop.CurrentStage = "ripe"
	crop.AreaPlanted = decimal.NewFromInt(-2)
	fields := fieldErrors(t, crop.Validate())
	assert.Contains(t, fields, "current_stage")
	assert.Contains(t, fields, "area_planted")
}

func TestCrop_DaysSincePlanting(t *testing.T) {
	crop := Crop{PlantedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 0, crop.DaysSincePlanting(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 9, crop.DaysSincePlanting(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func TestIrrigationSchedule_MarkCompleted(t *testing.T) {
	s := IrrigationSchedule{CropID: 1, ScheduledDate: time.Now(), DurationMinutes: 30}

	first := time.Date(2024, 3, 1, 7, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	s.MarkCompleted(first)
	require.NotNil(t, s.CompletedDate)
	assert.True(t, s.Completed)
	assert.Equal(t, time.UTC, s.CompletedDate.Location())
	assert.True(t, first.Equal(*s.CompletedDate))

	second := first.Add(time.Hour)
	s.MarkCompleted(second)
	assert.True(t, s.Completed)
	assert.True(t, second.Equal(*s.CompletedDate))
	assert.NoError(t, s.Validate())
}

func TestIrrigationSchedule_Validate(t *testing.T) {
	stamp := time.Now()
	s := IrrigationSchedule{
		CropID:            1,
		ScheduledDate:     stamp,
		WaterAmountLiters: decimal.NewNullDecimal(decimal.NewFromInt(-5)),
		CompletedDate:     &stamp,
	}

	fields := fieldErrors(t, s.Validate())
	assert.Contains(t, fields, "duration_minutes")
	assert.Contains(t, fields, "water_amount_liters")
	assert.Contains(t, fields, "completed_date")
}

func TestWeatherData_Validate(t *testing.T) {
	w := WeatherData{FarmID: 1, Date: DateOf(time.Now())}
	assert.NoError(t, w.Validate())

	w.Humidity = decimal.NewNullDecimal(decimal.NewFromInt(101))
	w.Rainfall = decimal.NewFromInt(-1)
	fields := fieldErrors(t, w.Validate())
	assert.Contains(t, fields, "humidity")
	assert.Contains(t, fields, "rainfall")
}

func TestFieldErrors_Error(t *testing.T) {
	err := FieldErrors{"name": "this field is required", "area": "must not be negative"}
	assert.Equal(t, "validation failed: area: must not be negative; name: this field is required", err.Error())
}

func TestDateOf(t *testing.T) {
	local := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DateOf(local))
}

func TestDecimalFits(t *testing.T) {
	tests := []struct {
		value  string
		digits int
		places int
		want   string
	}{
		{"123456.78", 8, 2, ""},
		{"2.50", 8, 2, ""},
		{"2.500", 8, 2, ""},
		{"-999.99", 5, 2, ""},
		{"2.555", 8, 2, "must have at most 2 decimal places"},
		{"1234567", 8, 2, "must have at most 6 digits before the decimal point"},
		{"1000", 5, 2, "must have at most 3 digits before the decimal point"},
		{"-1000", 5, 2, "must have at most 3 digits before the decimal point"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, decimalFits(decimal.RequireFromString(tt.value), tt.digits, tt.places))
		})
	}
}

func TestValidate_DecimalColumns(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	farm := Farm{Name: "A", Location: "North", OwnerID: 1, TotalArea: decimal.RequireFromString("123456789")}
	assert.Equal(t, "must have at most 8 digits before the decimal point", fieldErrors(t, farm.Validate())["total_area"])

	crop := Crop{
		FarmID:              1,
		CropTypeID:          1,
		PlantedDate:         day,
		ExpectedHarvestDate: day,
		AreaPlanted:         decimal.RequireFromString("2.555"),
		CurrentStage:        StageSeed,
	}
	assert.Equal(t, "must have at most 2 decimal places", fieldErrors(t, crop.Validate())["area_planted"])

	crop.AreaPlanted = decimal.RequireFromString("-1234567")
	assert.Equal(t, "must not be negative", fieldErrors(t, crop.Validate())["area_planted"])

	schedule := IrrigationSchedule{
		CropID:            1,
		ScheduledDate:     day,
		DurationMinutes:   30,
		WaterAmountLiters: decimal.NewNullDecimal(decimal.RequireFromString("12.345")),
	}
	assert.Contains(t, fieldErrors(t, schedule.Validate()), "water_amount_liters")

	w := WeatherData{
		FarmID:         1,
		Date:           day,
		TemperatureMax: decimal.NewNullDecimal(decimal.RequireFromString("1000")),
		TemperatureMin: decimal.NewNullDecimal(decimal.RequireFromString("-4.5")),
		Rainfall:       decimal.RequireFromString("10000"),
	}
	fields := fieldErrors(t, w.Validate())
	assert.Contains(t, fields, "temperature_max")
	assert.NotContains(t, fields, "temperature_min")
	assert.Equal(t, "must have at most 4 digits before the decimal point", fields["rainfall"])
}
