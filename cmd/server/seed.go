package main

import (
	"github.com/h4ks-com/croptrack/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample farm data",
	Long: `Create sample crop types, a "farmer" user with two farms, crops on the
first farm and a few days of irrigation for each new crop.

Records that already exist are left alone, so running seed twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		result, err := services.NewSeedService(db, services.NewClock(cfg.Location), log).Populate()
		if err != nil {
			return err
		}

		log.Info("Sample data ready",
			zap.Int("crop_types", result.CropTypes),
			zap.Int("farms", result.Farms),
			zap.Int("crops", result.Crops),
			zap.Int("irrigation_schedules", result.IrrigationSchedules))
		return nil
	},
}
