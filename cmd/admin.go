package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/spf13/cobra"
)

// Registration accepts the admin role, but operators still need a way to
// seed a verified admin without a mailer.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a verified admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}

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

		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			Email:           email,
			PasswordHash:    hash,
			Role:            models.RoleAdmin,
			IsEmailVerified: true,
		}
		if name != "" {
			user.Name = &name
		}

		repo := postgres.NewRepository(db)
		if err := repo.User().Create(cmd.Context(), user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("user %s already exists", email)
			}
			return err
		}

		logger.Info("Admin account created", "user_id", user.ID, "email", user.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("email", "", "Admin email")
	createAdminCmd.Flags().String("password", "", "Admin password")
	createAdminCmd.Flags().String("name", "", "Display name")
}
