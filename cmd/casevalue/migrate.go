package main

import (
	"errors"

	"casevalue-backend/logging"
	"casevalue-backend/repository"

	"github.com/spf13/cobra"
)

var migrateVersion int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the database schema",
	Long:  "Migrate to the latest schema by default. --version 0 rolls back every migration.",
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("database_url is required")
		}
		return repository.Migrate(cfg.DatabaseURL, migrateVersion, logging.Component("migrate"))
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateVersion, "version", -1, "Target schema version (-1 for latest)")
	rootCmd.AddCommand(migrateCmd)
}
