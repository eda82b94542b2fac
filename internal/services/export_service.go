package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/h4ks-com/croptrack/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidReport = errors.New("invalid report data")
)

const dateLayout = "2006-01-02"

// FarmReport is a signed snapshot of one farm's records.
type FarmReport struct {
	FarmID           uint                   `json:"farm_id"`
	FarmName         string                 `json:"farm_name"`
	Location         string                 `json:"location"`
	Owner            string                 `json:"owner"`
	TotalArea        decimal.Decimal        `json:"total_area"`
	TotalAreaPlanted decimal.Decimal        `json:"total_area_planted"`
	Crops            []CropReportItem       `json:"crops"`
	Irrigation       []IrrigationReportItem `json:"irrigation"`
	Weather          []WeatherReportItem    `json:"weather"`
	GeneratedAt      time.Time              `json:"generated_at"`
	Signature        string                 `json:"signature"`
}

type CropReportItem struct {
	ID                  uint            `json:"id"`
	CropType            string          `json:"crop_type"`
	PlantedDate         string          `json:"planted_date"`
	AreaPlanted         decimal.Decimal `json:"area_planted"`
	CurrentStage        string          `json:"current_stage"`
	ExpectedHarvestDate string          `json:"expected_harvest_date"`
}

type IrrigationReportItem struct {
	ID                uint                `json:"id"`
	CropID            uint                `json:"crop_id"`
	CropType          string              `json:"crop_type"`
	ScheduledDate     time.Time           `json:"scheduled_date"`
	DurationMinutes   int                 `json:"duration_minutes"`
	WaterAmountLiters decimal.NullDecimal `json:"water_amount_liters"`
	Completed         bool                `json:"completed"`
	CompletedDate     *time.Time          `json:"completed_date"`
}

type WeatherReportItem struct {
	Date           string              `json:"date"`
	TemperatureMax decimal.NullDecimal `json:"temperature_max"`
	TemperatureMin decimal.NullDecimal `json:"temperature_min"`
	Humidity       decimal.NullDecimal `json:"humidity"`
	Rainfall       decimal.Decimal     `json:"rainfall"`
}

type ExportService struct {
	farmRepo       *repository.FarmRepository
	cropRepo       *repository.CropRepository
	irrigationRepo *repository.IrrigationRepository
	weatherRepo    *repository.WeatherRepository
	signingKey     string
	clock          Clock
}

func NewExportService(
	farmRepo *repository.FarmRepository,
	cropRepo *repository.CropRepository,
	irrigationRepo *repository.IrrigationRepository,
	weatherRepo *repository.WeatherRepository,
	signingKey string,
	clock Clock,
) *ExportService {
	return &ExportService{
		farmRepo:       farmRepo,
		cropRepo:       cropRepo,
		irrigationRepo: irrigationRepo,
		weatherRepo:    weatherRepo,
		signingKey:     signingKey,
		clock:          clock,
	}
}

func (s *ExportService) ExportFarm(farmID, ownerID uint) (*FarmReport, error) {
	farm, err := s.farmRepo.FindForOwner(farmID, ownerID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}

	crops, err := s.cropRepo.ListByFarm(farm.ID)
	if err != nil {
		return nil, err
	}
	planted, err := s.cropRepo.SumAreaByFarm(farm.ID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.irrigationRepo.ListByFarm(farm.ID)
	if err != nil {
		return nil, err
	}
	weather, err := s.weatherRepo.ListByFarm(farm.ID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	report := &FarmReport{
		FarmID:           farm.ID,
		FarmName:         farm.Name,
		Location:         farm.Location,
		Owner:            farm.Owner.Username,
		TotalArea:        farm.TotalArea,
		TotalAreaPlanted: planted,
		Crops:            make([]CropReportItem, len(crops)),
		Irrigation:       make([]IrrigationReportItem, len(schedules)),
		Weather:          make([]WeatherReportItem, len(weather)),
		GeneratedAt:      s.clock.Now().UTC().Truncate(time.Second),
	}

	for i, crop := range crops {
		report.Crops[i] = CropReportItem{
			ID:                  crop.ID,
			CropType:            crop.CropType.Name,
			PlantedDate:         crop.PlantedDate.Format(dateLayout),
			AreaPlanted:         crop.AreaPlanted,
			CurrentStage:        string(crop.CurrentStage),
			ExpectedHarvestDate: crop.ExpectedHarvestDate.Format(dateLayout),
		}
	}
	for i, schedule := range schedules {
		report.Irrigation[i] = IrrigationReportItem{
			ID:                schedule.ID,
			CropID:            schedule.CropID,
			CropType:          schedule.Crop.CropType.Name,
			ScheduledDate:     schedule.ScheduledDate.UTC(),
			DurationMinutes:   schedule.DurationMinutes,
			WaterAmountLiters: schedule.WaterAmountLiters,
			Completed:         schedule.Completed,
			CompletedDate:     utcPtr(schedule.CompletedDate),
		}
	}
	for i, record := range weather {
		report.Weather[i] = WeatherReportItem{
			Date:           record.Date.Format(dateLayout),
			TemperatureMax: record.TemperatureMax,
			TemperatureMin: record.TemperatureMin,
			Humidity:       record.Humidity,
			Rainfall:       record.Rainfall,
		}
	}

	signature, err := s.signReport(report)
	if err != nil {
		return nil, err
	}
	report.Signature = signature

	return report, nil
}

func (s *ExportService) VerifyReport(reportData []byte) (bool, error) {
	var report FarmReport
	if err := json.Unmarshal(reportData, &report); err != nil {
		return false, ErrInvalidReport
	}
	return s.VerifyReportData(&report)
}

func (s *ExportService) VerifyReportData(report *FarmReport) (bool, error) {
	if report.Signature == "" {
		return false, ErrInvalidReport
	}

	computed, err := s.signReport(report)
	if err != nil {
		return false, err
	}

	return hmac.Equal([]byte(computed), []byte(report.Signature)), nil
}

func (s *ExportService) signReport(report *FarmReport) (string, error) {
	reportCopy := *report
	reportCopy.Signature = ""

	data, err := json.Marshal(reportCopy)
	if err != nil {
		return "", err
	}

	h := hmac.New(sha256.New, []byte(s.signingKey))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteWorkbook renders the report as an xlsx workbook with one sheet per
// record kind.
func (s *ExportService) WriteWorkbook(report *FarmReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Farm"); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Farm", report.FarmName},
		{"Location", report.Location},
		{"Owner", report.Owner},
		{"Total area (acres)", report.TotalArea.String()},
		{"Area planted (acres)", report.TotalAreaPlanted.String()},
		{"Generated at", report.GeneratedAt.Format(time.RFC3339)},
		{"Signature", report.Signature},
	}
	if err := writeRows(f, "Farm", summary); err != nil {
		return err
	}

	crops := [][]interface{}{{"ID", "Crop", "Planted", "Area (acres)", "Stage", "Expected harvest"}}
	for _, crop := range report.Crops {
		crops = append(crops, []interface{}{
			crop.ID, crop.CropType, crop.PlantedDate, crop.AreaPlanted.String(), crop.CurrentStage, crop.ExpectedHarvestDate,
		})
	}
	if err := writeSheet(f, "Crops", crops); err != nil {
		return err
	}

	irrigation := [][]interface{}{{"ID", "Crop", "Scheduled", "Minutes", "Liters", "Completed", "Completed at"}}
	for _, item := range report.Irrigation {
		completedAt := ""
		if item.CompletedDate != nil {
			completedAt = item.CompletedDate.Format(time.RFC3339)
		}
		irrigation = append(irrigation, []interface{}{
			item.ID, item.CropType, item.ScheduledDate.Format(time.RFC3339), item.DurationMinutes,
			nullDecimalCell(item.WaterAmountLiters), item.Completed, completedAt,
		})
	}
	if err := writeSheet(f, "Irrigation", irrigation); err != nil {
		return err
	}

	weather := [][]interface{}{{"Date", "Max temp", "Min temp", "Humidity", "Rainfall"}}
	for _, item := range report.Weather {
		weather = append(weather, []interface{}{
			item.Date, nullDecimalCell(item.TemperatureMax), nullDecimalCell(item.TemperatureMin),
			nullDecimalCell(item.Humidity), item.Rainfall.String(),
		})
	}
	if err := writeSheet(f, "Weather", weather); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullDecimalCell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
