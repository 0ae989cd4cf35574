package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// Categories returns the distinct category names in alphabetical order
	Categories(ctx context.Context) ([]string, error)
}

// ProductFilterParams contains filtering parameters for product queries.
// Price bounds apply to the starting price, in cents.
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	MinPrice   *int64
	MaxPrice   *int64
}

// Match applies the filter to a single product. Search is case-insensitive
// against name, code and description.
func (p *ProductFilterParams) Match(product *entity.Product) bool {
	if p.Category != "" && !strings.EqualFold(product.Category, p.Category) {
		return false
	}
	price := product.StartingPrice()
	if p.MinPrice != nil && price < *p.MinPrice {
		return false
	}
	if p.MaxPrice != nil && price > *p.MaxPrice {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(p.Search))
	if search == "" {
		return true
	}
	for _, field := range []string{product.Name, product.Code, product.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
