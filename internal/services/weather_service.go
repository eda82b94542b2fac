package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDuplicateWeather = errors.New("weather already recorded for this farm and date")
)

type WeatherInput struct {
	Date           time.Time
	TemperatureMax *decimal.Decimal
	TemperatureMin *decimal.Decimal
	Humidity       *decimal.Decimal
	Rainfall       *decimal.Decimal
}

type WeatherService struct {
	farmRepo    *repository.FarmRepository
	weatherRepo *repository.WeatherRepository
}

func NewWeatherService(farmRepo *repository.FarmRepository, weatherRepo *repository.WeatherRepository) *WeatherService {
	return &WeatherService{
		farmRepo:    farmRepo,
		weatherRepo: weatherRepo,
	}
}

// RecordWeather stores one day of observations for an owned farm. A day
// that already has a record is refused with ErrDuplicateWeather.
func (s *WeatherService) RecordWeather(farmID, ownerID uint, input WeatherInput) (*models.WeatherData, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}

	record := newWeatherRecord(farm.ID, input)
	if err := s.weatherRepo.Create(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWeather, record.Date.Format("2006-01-02"))
		}
		return nil, err
	}

	return record, nil
}

func (s *WeatherService) ListWeather(farmID, ownerID uint, from, to time.Time) ([]models.WeatherData, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}

	return s.weatherRepo.ListByFarm(farm.ID, from, to)
}

func (s *WeatherService) SearchWeather(farmID uint, from, to *time.Time, page repository.Page) ([]models.WeatherData, int64, error) {
	return s.weatherRepo.Search(farmID, from, to, page)
}

// ImportWeather records an observation for any farm, bypassing ownership.
// It backs the operator import command.
func (s *WeatherService) ImportWeather(farmID uint, input WeatherInput) (*models.WeatherData, error) {
	farm, err := s.farmRepo.FindByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	return s.RecordWeather(farm.ID, farm.OwnerID, input)
}

func newWeatherRecord(farmID uint, input WeatherInput) *models.WeatherData {
	record := &models.WeatherData{
		FarmID:   farmID,
		Date:     models.DateOf(input.Date),
		Rainfall: decimal.Zero,
	}
	if input.TemperatureMax != nil {
		record.TemperatureMax = decimal.NewNullDecimal(*input.TemperatureMax)
	}
	if input.TemperatureMin != nil {
		record.TemperatureMin = decimal.NewNullDecimal(*input.TemperatureMin)
	}
	if input.Humidity != nil {
		record.Humidity = decimal.NewNullDecimal(*input.Humidity)
	}
	if input.Rainfall != nil {
		record.Rainfall = *input.Rainfall
	}
	return record
}
