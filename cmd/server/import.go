package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/h4ks-com/croptrack/internal/server"
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// WeatherImport is one observation in an import file.
type WeatherImport struct {
	FarmID         uint             `json:"farm_id"`
	Date           string           `json:"date"`
	TemperatureMax *decimal.Decimal `json:"temperature_max"`
	TemperatureMin *decimal.Decimal `json:"temperature_min"`
	Humidity       *decimal.Decimal `json:"humidity"`
	Rainfall       *decimal.Decimal `json:"rainfall"`
}

var (
	importFile   string
	importFarmID uint
	strictMode   bool
)

var importCmd = &cobra.Command{
	Use:   "import-weather",
	Short: "Import weather observations from a JSON file",
	Long: `Import daily weather observations from a JSON file.

Expected JSON format:
[
  {"farm_id": 1, "date": "2024-03-01", "temperature_max": 24.5, "temperature_min": 11, "humidity": 65, "rainfall": 0},
  {"farm_id": 1, "date": "2024-03-02", "rainfall": 3.2}
]

Rows without farm_id use --farm. Dates that already have a record for the
farm are skipped; use --strict to fail on the first rejected row instead.`,
	Example: `  croptrack import-weather -f weather.json
  croptrack import-weather -f weather.json --farm 2
  croptrack import-weather -f weather.json --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport()
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file to import (required)")
	importCmd.Flags().UintVar(&importFarmID, "farm", 0, "Farm ID for rows without farm_id")
	importCmd.Flags().BoolVar(&strictMode, "strict", false, "Fail on any rejected row")
	importCmd.MarkFlagRequired("file")
}

func runImport() error {
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var rows []WeatherImport
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	weatherService := server.NewServices(db, cfg).Weather

	log.Info("Starting weather import", zap.Int("rows", len(rows)), zap.String("file", importFile))

	imported, skipped := 0, 0
	for i, row := range rows {
		if err := importWeatherRow(row, weatherService); err != nil {
			if strictMode {
				return fmt.Errorf("import failed at row %d: %w", i+1, err)
			}
			log.Warn("Skipped row", zap.Int("row", i+1), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}

	log.Info("Import complete", zap.Int("imported", imported), zap.Int("skipped", skipped))
	return nil
}

func importWeatherRow(row WeatherImport, weatherService *services.WeatherService) error {
	farmID := row.FarmID
	if farmID == 0 {
		farmID = importFarmID
	}
	if farmID == 0 {
		return errors.New("no farm_id and no --farm given")
	}

	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", row.Date, err)
	}

	_, err = weatherService.ImportWeather(farmID, services.WeatherInput{
		Date:           date,
		TemperatureMax: row.TemperatureMax,
		TemperatureMin: row.TemperatureMin,
		Humidity:       row.Humidity,
		Rainfall:       row.Rainfall,
	})
	return err
}
