package repository

import (
	"context"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations.
// Lookups return (nil, nil) when no invoice matches.
type InvoiceRepository interface {
	// FindMostRecent returns the invoice with the latest CreatedAt, used to derive the next id
	FindMostRecent(ctx context.Context) (*entity.Invoice, error)
	FindByID(ctx context.Context, id string) (*entity.Invoice, error)
	// Insert stores a new invoice with its items. A duplicate id yields a
	// uniqueness conflict AppError.
	Insert(ctx context.Context, invoice *entity.Invoice) error
	// Update persists header fields (customer, status, payment, reason, comment, last modified)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// List returns one page of matching invoices, newest first, and the total match count
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Filter     invoicing.Filter
}
