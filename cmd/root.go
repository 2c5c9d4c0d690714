package cmd

import (
	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "exam-service",
	Short:         "Exam platform backend",
	Long:          "Accounts, question bank, tests, assignments and attempts behind a JSON HTTP API.",
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "Path to an env file (defaults to .env)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: postgres, mysql or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().String("database-url", "", "Database DSN (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// loadConfig reads the env file named by --env-file, then applies the
// database flags on top of the environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var envFiles []string
	if p, _ := cmd.Flags().GetString("env-file"); p != "" {
		envFiles = append(envFiles, p)
	}

	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		return nil, err
	}

	if driver, _ := cmd.Flags().GetString("db-driver"); driver != "" {
		cfg.DatabaseDriver = driver
	}
	if dsn, _ := cmd.Flags().GetString("database-url"); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	return cfg, nil
}
