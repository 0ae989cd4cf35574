package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	productRepo    repository.ProductRepository
	builder        *invoicing.Builder
	lifecycle      *invoicing.Lifecycle
	createAttempts int
	log            zerolog.Logger

	// mu serializes the read-latest/build/insert sequence and every
	// read-modify-write of an existing invoice
	mu sync.Mutex
}

// NewInvoiceService creates a new invoice service. createAttempts bounds how
// many ids are tried when inserts collide; values below 1 mean a single try.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	builder *invoicing.Builder,
	lifecycle *invoicing.Lifecycle,
	createAttempts int,
) *InvoiceService {
	if createAttempts < 1 {
		createAttempts = 1
	}
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		productRepo:    productRepo,
		builder:        builder,
		lifecycle:      lifecycle,
		createAttempts: createAttempts,
		log:            logger.WithComponent("invoice-service"),
	}
}

// InvoiceItemInput represents a cart line in a create request
type InvoiceItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Portions  int
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	Items          []InvoiceItemInput
	CustomerName   string
	CustomerNIT    string
	CustomerPhone  string
	Status         enum.InvoiceStatus
	Comment        string
	PartialPayment *int64
}

// CreateInvoice prices the cart and stores it as a new invoice with the next
// identifier. An id collision at insert time is retried with a fresh id.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	lines, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	req := invoicing.BuildRequest{
		Lines:          lines,
		CustomerName:   input.CustomerName,
		CustomerNIT:    input.CustomerNIT,
		CustomerPhone:  input.CustomerPhone,
		Status:         input.Status,
		Comment:        input.Comment,
		PartialPayment: input.PartialPayment,
	}
	if err := s.builder.Validate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// taken is the highest id known to exist, so a stale read of the most
	// recent invoice cannot hand out the same id twice
	var taken string
	for attempt := 1; attempt <= s.createAttempts; attempt++ {
		last, err := s.invoiceRepo.FindMostRecent(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read most recent invoice: %w", err)
		}
		lastID := taken
		if last != nil {
			lastID = laterID(last.ID, taken)
		}

		invoice, err := s.builder.Build(lastID, req)
		if err != nil {
			return nil, err
		}

		err = s.invoiceRepo.Insert(ctx, invoice)
		if err == nil {
			s.log.Info().
				Str("invoice_id", invoice.ID).
				Str("status", invoice.Status.String()).
				Int64("total_cents", invoice.Total).
				Int("items", len(invoice.Items)).
				Msg("invoice created")
			return invoice, nil
		}
		if !apperror.IsKind(err, apperror.KindUniquenessConflict) {
			return nil, err
		}

		s.log.Warn().
			Str("invoice_id", invoice.ID).
			Int("attempt", attempt).
			Int("max_attempts", s.createAttempts).
			Msg("invoice id already taken, regenerating")
		taken = invoice.ID
	}

	s.log.Error().Int("attempts", s.createAttempts).Msg("gave up allocating an invoice id")
	return nil, apperror.ErrTooManyRetries
}

// resolveLines loads the products referenced by the cart in one query
func (s *InvoiceService) resolveLines(ctx context.Context, items []InvoiceItemInput) ([]invoicing.CartLine, error) {
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	lines := make([]invoicing.CartLine, 0, len(items))
	for _, item := range items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		lines = append(lines, invoicing.CartLine{
			Product:  product,
			Quantity: item.Quantity,
			Portions: item.Portions,
		})
	}
	return lines, nil
}

// laterID returns whichever id carries the higher sequence number
func laterID(a, b string) string {
	if b == "" {
		return a
	}
	an, aok := invoicing.Sequence(a)
	bn, bok := invoicing.Sequence(b)
	if !aok || (bok && bn.Cmp(an) > 0) {
		return b
	}
	return a
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceSummary returns the scan-code payload of an invoice
func (s *InvoiceService) GetInvoiceSummary(ctx context.Context, id string) (*entity.InvoiceSummary, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := invoicing.Summarize(invoice)
	return &summary, nil
}

// ListInvoices lists invoices matching the filter, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceStatus moves an invoice through its lifecycle
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id string, status enum.InvoiceStatus, payload invoicing.StatusPayload) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	from := invoice.Status

	if _, err := s.lifecycle.ApplyStatus(invoice, status, payload); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", invoice.ID).
		Str("from", from.String()).
		Str("to", invoice.Status.String()).
		Msg("invoice status changed")
	return invoice, nil
}

// UpdateInvoice applies a general edit to a non-finalized invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, patch invoicing.EditPatch) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.lifecycle.ApplyEdit(invoice, patch); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.log.Info().Str("invoice_id", invoice.ID).Msg("invoice updated")
	return invoice, nil
}
