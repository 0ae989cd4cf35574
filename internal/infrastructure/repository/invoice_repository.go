package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	domainRepo "github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"gorm.io/gorm"
)

// invoiceUpdateColumns are the header columns an Update may write. Items,
// total and creation time are fixed once the invoice is inserted.
var invoiceUpdateColumns = []string{
	"customer_name",
	"customer_nit",
	"customer_phone",
	"status",
	"partial_payment",
	"cancellation_reason",
	"comment",
	"last_modified",
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *invoiceRepository) FindMostRecent(ctx context.Context) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Order("created_at DESC, LENGTH(id) DESC, id DESC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Insert(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(invoice).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewUniquenessConflictError(fmt.Sprintf("invoice id %s already exists", invoice.ID))
	}
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.ID, err)
	}
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("id = ?", invoice.ID).
		Select(invoiceUpdateColumns).
		Updates(invoice)
	if result.Error != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Invoice")
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(InvoiceFilterScope(params.Filter))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PaginateScope(params.Pagination)).
		Preload("Items", preloadItems).
		Order("created_at DESC, LENGTH(id) DESC, id DESC").
		Find(&invoices).Error

	return invoices, total, err
}
