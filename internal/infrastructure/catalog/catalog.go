// Package catalog holds the default bakery catalog loaded into a fresh store.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
)

// Default returns the default catalog. Whole cakes are sold by portion;
// everything else has a fixed price per pack.
func Default() []entity.Product {
	return []entity.Product{
		entity.NewPortionProduct("PAS-CHO", "Pastel de Chocolate", "Pasteles", "Bizcocho de chocolate con ganache", 2000, 8, 24),
		entity.NewPortionProduct("PAS-VAI", "Pastel de Vainilla", "Pasteles", "Bizcocho de vainilla con crema", 1800, 8, 24),
		entity.NewPortionProduct("PAS-CHE", "Cheesecake", "Pasteles", "Cheesecake horneado estilo New York", 2200, 8, 16),
		entity.NewFlatProduct("CUP-006", "Cupcakes", "Cupcakes", "Cupcakes surtidos", 6000, "6 unidades"),
		entity.NewFlatProduct("GAL-012", "Galletas", "Galletas", "Galletas de mantequilla", 4500, "12 unidades"),
		entity.NewFlatProduct("PIE-MAN", "Pie de Manzana", "Pies", "Pie de manzana con canela", 12000, "entero"),
		entity.NewFlatProduct("BRO-004", "Brownies", "Brownies", "Brownies de chocolate con nuez", 5000, "4 unidades"),
		entity.NewFlatProduct("DON-003", "Donas", "Donas", "Donas glaseadas", 3500, "3 unidades"),
	}
}

// Seed inserts every default product whose code is not yet in the store and
// returns how many were created.
func Seed(ctx context.Context, products repository.ProductRepository) (int, error) {
	created := 0
	for _, p := range Default() {
		existing, err := products.GetByCode(ctx, p.Code)
		if err != nil {
			return created, fmt.Errorf("failed to look up product %s: %w", p.Code, err)
		}
		if existing != nil {
			continue
		}
		product := p
		if err := products.Create(ctx, &product); err != nil {
			return created, fmt.Errorf("failed to create product %s: %w", p.Code, err)
		}
		created++
	}

	log.Info().Int("created", created).Msg("Catalog seeding completed")
	return created, nil
}
