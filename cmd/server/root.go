package main

import (
	"fmt"
	"os"

	"github.com/h4ks-com/croptrack/internal/config"
	"github.com/h4ks-com/croptrack/internal/database"
	"github.com/h4ks-com/croptrack/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "croptrack",
	Short: "Croptrack - farm record keeping",
	Long: `Croptrack keeps records for small farms: farms, the crops planted on
them, irrigation schedules and daily weather.

Run 'croptrack serve' to start the API server, 'croptrack seed' to load
sample data, or 'croptrack import-weather' to load weather observations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
}

// bootstrap loads configuration, builds the logger and opens a migrated
// database. Callers must Sync the logger.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(db, log); err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}
