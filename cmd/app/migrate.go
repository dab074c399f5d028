package main

import (
	"github.com/spf13/cobra"

	"coaching-subscription/internal/infra/db/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if err := migrations.Up(cmd.Context(), cfg.Database.URL); err != nil {
			return err
		}
		v, err := migrations.Version(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		logger.Info().Int64("version", v).Msg("database is up to date")
		return nil
	},
}
