package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
)

type invoiceRepository struct {
	db *memdb.MemDB
}

// scan returns the stored invoices, narrowed by the status index when the
// filter names a status
func (r *invoiceRepository) scan(txn *memdb.Txn, f invoicing.Filter) ([]*entity.Invoice, error) {
	var it memdb.ResultIterator
	var err error
	if f.Status != nil {
		it, err = txn.Get(tableInvoices, "status", string(*f.Status))
	} else {
		it, err = txn.Get(tableInvoices, "id")
	}
	if err != nil {
		return nil, err
	}
	var invoices []*entity.Invoice
	for obj := it.Next(); obj != nil; obj = it.Next() {
		invoices = append(invoices, obj.(*entity.Invoice))
	}
	return invoices, nil
}

func (r *invoiceRepository) FindMostRecent(ctx context.Context) (*entity.Invoice, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	invoices, err := r.scan(txn, invoicing.Filter{})
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}
	return slices.MinFunc(invoices, invoicing.CompareRecency).Clone(), nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableInvoices, "id", id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*entity.Invoice).Clone(), nil
}

func (r *invoiceRepository) Insert(ctx context.Context, invoice *entity.Invoice) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	// memdb upserts on the id index, so the collision check is explicit
	existing, err := txn.First(tableInvoices, "id", invoice.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewUniquenessConflictError(fmt.Sprintf("invoice id %s already exists", invoice.ID))
	}

	for i := range invoice.Items {
		if invoice.Items[i].ID == uuid.Nil {
			invoice.Items[i].ID = uuid.New()
		}
		invoice.Items[i].InvoiceID = invoice.ID
	}

	if err := txn.Insert(tableInvoices, invoice.Clone()); err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.ID, err)
	}
	txn.Commit()
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableInvoices, "id", invoice.ID)
	if err != nil {
		return err
	}
	if obj == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	stored := obj.(*entity.Invoice).Clone()
	updated := invoice.Clone()
	stored.CustomerName = updated.CustomerName
	stored.CustomerNIT = updated.CustomerNIT
	stored.CustomerPhone = updated.CustomerPhone
	stored.Status = updated.Status
	stored.PartialPayment = updated.PartialPayment
	stored.CancellationReason = updated.CancellationReason
	stored.Comment = updated.Comment
	stored.LastModified = updated.LastModified

	if err := txn.Insert(tableInvoices, stored); err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.ID, err)
	}
	txn.Commit()
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	invoices, err := r.scan(txn, params.Filter)
	if err != nil {
		return nil, 0, err
	}

	match := params.Filter.Predicate()
	matched := make([]*entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if match(inv) {
			matched = append(matched, inv)
		}
	}
	slices.SortFunc(matched, invoicing.CompareRecency)

	params.Pagination.Validate()
	start, end := params.Pagination.Bounds(len(matched))
	page := make([]entity.Invoice, 0, end-start)
	for _, inv := range matched[start:end] {
		page = append(page, *inv.Clone())
	}
	return page, int64(len(matched)), nil
}
