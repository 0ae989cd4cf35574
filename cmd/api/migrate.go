package main

import (
	"fmt"

	"github.com/sangkips/pasvilla-invoicing/internal/config"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/catalog"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/database"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema and load the default catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")

		if cfg.Store.Driver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate requires the %s store, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
		}

		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		defer sqlDB.Close()

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("Schema migrated")

		skipSeed, _ := cmd.Flags().GetBool("skip-seed")
		if skipSeed {
			return nil
		}
		created, err := catalog.Seed(cmd.Context(), repository.NewProductRepository(db))
		if err != nil {
			return err
		}
		log.Info().Int("products", created).Msg("Catalog loaded")
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("skip-seed", false, "Only migrate the schema")
	rootCmd.AddCommand(migrateCmd)
}
