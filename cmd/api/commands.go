package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gradeplanner/backend/internal/database"
	"github.com/gradeplanner/backend/internal/grading"
	"github.com/gradeplanner/backend/internal/models"
	"github.com/gradeplanner/backend/internal/services"
	"github.com/gradeplanner/backend/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return err
		}
		if err := database.Migrate(db, logger); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Migration completed successfully")
		return nil
	},
}

var (
	adminEmail    string
	adminPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return err
		}

		var count int64
		db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
		if count > 0 {
			logger.Info("Admin already exists")
			return nil
		}

		authService := services.NewAuthService(db, cfg)
		admin := &models.User{
			Email:    adminEmail,
			FullName: "Administrator",
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := authService.CreateUser(admin, adminPassword); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		logger.Info("Admin created", zap.String("email", admin.Email))
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [planner.json]",
	Short: "Evaluate a planner document offline and print the summary",
	Long: `Reads a planner state as JSON (from a file or stdin) and prints the
evaluated summary. When the automatic exam calculation is on, the written-back
exam grade is reflected in the printed state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		var state grading.PlannerState
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("parse planner: %w", err)
		}
		if state.Items == nil {
			state.Items = []grading.AssessmentItem{}
		}

		svc := services.NewPlannerService(storage.NewMemoryStore(), nil, services.DefaultSeedTemplate(), grading.DefaultTargetPass, logger)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(svc.Evaluate(state))
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@gradeplanner.local", "admin email")
	seedAdminCmd.Flags().StringVar(&adminPassword, "password", "Admin@123", "admin password")
}
