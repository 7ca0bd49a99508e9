package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gradeplanner/backend/internal/config"
	"github.com/gradeplanner/backend/internal/database"
	"github.com/gradeplanner/backend/internal/logging"
	"github.com/gradeplanner/backend/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditDays int

var rootCmd = &cobra.Command{
	Use:           "cleanup",
	Short:         "Prune spent refresh tokens and old audit rows",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runCleanup,
}

func init() {
	rootCmd.Flags().IntVar(&auditDays, "audit-days", 90, "keep audit rows newer than this many days")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if auditDays < 1 {
		return fmt.Errorf("--audit-days must be at least 1, got %d", auditDays)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	now := time.Now()
	tokens, err := services.NewAuthService(db, cfg).PruneTokens(now)
	if err != nil {
		logger.Error("Failed to prune refresh tokens", zap.Error(err))
	} else {
		logger.Info("Pruned refresh tokens", zap.Int64("rows", tokens))
	}

	cutoff := now.AddDate(0, 0, -auditDays)
	audits, err := services.NewAuditService(db).Prune(cutoff)
	if err != nil {
		return fmt.Errorf("prune audit logs: %w", err)
	}
	logger.Info("Pruned audit logs", zap.Int64("rows", audits), zap.Time("cutoff", cutoff))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
