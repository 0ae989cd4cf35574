package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// ProductService handles catalog lookups for the cart
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with search, category and price filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return nil, apperror.NewFieldValidationError("min_price", "min_price cannot exceed max_price")
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListCategories returns the catalog's category names
func (s *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}
