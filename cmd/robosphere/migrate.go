package main

import (
	"fmt"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/elanurleylek/robosphere-sub000/internal/database"
	"github.com/elanurleylek/robosphere-sub000/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		log := logger.NewLogger(cfg.Observability)
		if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	},
}
