package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
)

// BuildRequest carries everything needed to assemble a new invoice
type BuildRequest struct {
	Lines          []CartLine
	CustomerName   string
	CustomerNIT    string
	CustomerPhone  string
	Status         enum.InvoiceStatus
	Comment        string
	PartialPayment *int64
}

// Builder assembles invoices from cart lines
type Builder struct {
	ids   IDGenerator
	clock func() time.Time
}

// NewBuilder creates a builder. A nil clock defaults to time.Now.
func NewBuilder(ids IDGenerator, clock func() time.Time) *Builder {
	if clock == nil {
		clock = time.Now
	}
	return &Builder{ids: ids, clock: clock}
}

// IDs returns the identifier generator used by the builder
func (b *Builder) IDs() IDGenerator {
	return b.ids
}

// Validate checks a request without building it. All problems are reported
// together in a single validation error.
func (b *Builder) Validate(req BuildRequest) error {
	_, errs := b.price(req)
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// Build validates req, prices every line and returns a new invoice whose id
// follows lastID. lastID is the id of the most recent invoice, or "" when
// there is none. Nothing is returned unless every check passes.
func (b *Builder) Build(lastID string, req BuildRequest) (*entity.Invoice, error) {
	priced, errs := b.price(req)
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	now := b.clock()
	items := make([]entity.InvoiceItem, len(priced))
	for i, line := range priced {
		items[i] = line.Item(i)
	}

	invoice := &entity.Invoice{
		ID:            b.ids.Next(lastID),
		Items:         items,
		Total:         ComputeTotal(priced),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerNIT:   strings.TrimSpace(req.CustomerNIT),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Status:        req.Status,
		Comment:       strings.TrimSpace(req.Comment),
		CreatedAt:     now,
		LastModified:  now,
	}
	if req.PartialPayment != nil {
		p := *req.PartialPayment
		invoice.PartialPayment = &p
	}
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}

	return invoice, nil
}

func (b *Builder) price(req BuildRequest) ([]PricedLine, []apperror.FieldError) {
	var errs []apperror.FieldError

	if len(req.Lines) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "an invoice must have at least one item"})
	}
	errs = append(errs, requireText("customer_name", req.CustomerName)...)
	errs = append(errs, requireText("customer_nit", req.CustomerNIT)...)
	errs = append(errs, requireText("customer_phone", req.CustomerPhone)...)

	if !req.Status.IsInitial() {
		errs = append(errs, apperror.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("a new invoice must be pending or partial, got %q", req.Status),
		})
	}

	priced := make([]PricedLine, 0, len(req.Lines))
	lineErrs := 0
	for i, line := range req.Lines {
		if le := ValidateCartLine(i, line); len(le) > 0 {
			errs = append(errs, le...)
			lineErrs++
			continue
		}
		priced = append(priced, PriceLine(line))
	}

	total, totalFits := CheckedTotal(priced)
	if !totalFits {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "invoice total exceeds the supported range"})
	}

	switch {
	case req.Status == enum.InvoiceStatusPartial && req.PartialPayment == nil:
		errs = append(errs, apperror.FieldError{Field: "partial_payment", Message: "a partial invoice requires a partial payment"})
	case req.PartialPayment != nil && lineErrs == 0 && totalFits:
		errs = append(errs, checkPartialPayment(*req.PartialPayment, total)...)
	}

	return priced, errs
}

func requireText(field, value string) []apperror.FieldError {
	if strings.TrimSpace(value) == "" {
		return []apperror.FieldError{{Field: field, Message: field + " is required"}}
	}
	return nil
}

// checkPartialPayment enforces 0 < amount <= total
func checkPartialPayment(amount, total int64) []apperror.FieldError {
	if amount <= 0 {
		return []apperror.FieldError{{Field: "partial_payment", Message: "partial payment must be greater than zero"}}
	}
	if amount > total {
		return []apperror.FieldError{{Field: "partial_payment", Message: "partial payment cannot exceed the invoice total"}}
	}
	return nil
}
