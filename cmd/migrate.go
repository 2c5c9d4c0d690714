package cmd

import (
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := utils.NewLogger(cfg.Environment)

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		if err := pkg.AutoMigrate(db); err != nil {
			return err
		}

		logger.Info("Database migrated", "driver", cfg.DatabaseDriver)
		return nil
	},
}
