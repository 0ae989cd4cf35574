package main

import (
	"context"
	"fmt"

	"github.com/sangkips/pasvilla-invoicing/internal/config"
	domainRepo "github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/catalog"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/database"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/memory"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
)

// stores bundles the repositories of the selected backend
type stores struct {
	invoices    domainRepo.InvoiceRepository
	products    domainRepo.ProductRepository
	idempotency domainRepo.IdempotencyRepository
	close       func() error
}

// openStores connects to the configured backend, migrating Postgres
// schemas and seeding the default catalog when enabled.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := logger.WithComponent("store")

	var s *stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store, err := memory.NewStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create memory store: %w", err)
		}
		s = &stores{
			invoices:    store.Invoices(),
			products:    store.Products(),
			idempotency: store.Idempotency(),
			close:       func() error { return nil },
		}

	case config.StoreDriverPostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		s = &stores{
			invoices:    repository.NewInvoiceRepository(db),
			products:    repository.NewProductRepository(db),
			idempotency: repository.NewIdempotencyRepository(db),
			close:       sqlDB.Close,
		}

	default:
		return nil, fmt.Errorf("unknown store driver %q (use %s or %s)",
			cfg.Store.Driver, config.StoreDriverPostgres, config.StoreDriverMemory)
	}

	// a memory store starts empty, so it always gets the catalog
	if cfg.Store.SeedCatalog || cfg.Store.Driver == config.StoreDriverMemory {
		if _, err := catalog.Seed(ctx, s.products); err != nil {
			_ = s.close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")
	return s, nil
}
