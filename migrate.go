package main

import (
	"github.com/spf13/cobra"

	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed the status tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		utils.InfoLogger.WithField("driver", cfg.DBDriver).Info("AutoMigrate completed.")
		return nil
	},
}
