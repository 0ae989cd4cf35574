package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
)

type requirement int

const (
	requiresNothing requirement = iota
	requiresPartialPayment
	requiresCancellationReason
)

// transitions lists every permitted status change and the payload it needs.
// Terminal statuses have no entries.
var transitions = map[enum.InvoiceStatus]map[enum.InvoiceStatus]requirement{
	enum.InvoiceStatusPending: {
		enum.InvoiceStatusPartial:   requiresPartialPayment,
		enum.InvoiceStatusCompleted: requiresNothing,
		enum.InvoiceStatusCancelled: requiresCancellationReason,
	},
	enum.InvoiceStatusPartial: {
		enum.InvoiceStatusPartial:   requiresPartialPayment,
		enum.InvoiceStatusCompleted: requiresNothing,
		enum.InvoiceStatusCancelled: requiresCancellationReason,
	},
}

// CanTransition reports whether from -> to is in the transition table
func CanTransition(from, to enum.InvoiceStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// StatusPayload carries the extra data some transitions require
type StatusPayload struct {
	PartialPayment     *int64
	CancellationReason string
}

// EditPatch lists the fields a general edit may touch. Nil fields are left
// alone. Status, id and items are deliberately absent.
type EditPatch struct {
	CustomerName   *string
	CustomerNIT    *string
	CustomerPhone  *string
	Comment        *string
	PartialPayment *int64
}

// IsEmpty reports whether the patch changes nothing
func (p EditPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.CustomerNIT == nil && p.CustomerPhone == nil &&
		p.Comment == nil && p.PartialPayment == nil
}

// Lifecycle applies status transitions and edits to invoices
type Lifecycle struct {
	clock func() time.Time
}

// NewLifecycle creates a lifecycle manager. A nil clock defaults to time.Now.
func NewLifecycle(clock func() time.Time) *Lifecycle {
	if clock == nil {
		clock = time.Now
	}
	return &Lifecycle{clock: clock}
}

// ApplyStatus moves inv to status to. On failure inv is left untouched.
func (l *Lifecycle) ApplyStatus(inv *entity.Invoice, to enum.InvoiceStatus, payload StatusPayload) (*entity.Invoice, error) {
	if inv.Status.IsTerminal() {
		return nil, apperror.NewStateConflictError(
			fmt.Sprintf("invoice %s is %s, a terminal state; no further transitions are allowed", inv.ID, inv.Status))
	}

	req, ok := transitions[inv.Status][to]
	if !ok {
		return nil, apperror.NewFieldValidationError("status",
			fmt.Sprintf("cannot change status from %q to %q", inv.Status, to))
	}

	reason := strings.TrimSpace(payload.CancellationReason)
	switch req {
	case requiresPartialPayment:
		if payload.PartialPayment == nil {
			return nil, apperror.NewFieldValidationError("partial_payment", "a partial payment is required")
		}
		if errs := checkPartialPayment(*payload.PartialPayment, inv.Total); len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}
	case requiresCancellationReason:
		if reason == "" {
			return nil, apperror.NewFieldValidationError("cancellation_reason", "a cancellation reason is required")
		}
	}

	inv.Status = to
	switch req {
	case requiresPartialPayment:
		p := *payload.PartialPayment
		inv.PartialPayment = &p
	case requiresCancellationReason:
		inv.CancellationReason = reason
	}
	inv.LastModified = l.clock()
	return inv, nil
}

// ApplyEdit merges patch into inv. Finalized invoices are rejected and, as
// with ApplyStatus, inv is only written once every field has been checked.
func (l *Lifecycle) ApplyEdit(inv *entity.Invoice, patch EditPatch) (*entity.Invoice, error) {
	if inv.Status.IsTerminal() {
		return nil, apperror.NewStateConflictError("cannot modify a finalized invoice")
	}

	var errs []apperror.FieldError
	if patch.CustomerName != nil {
		errs = append(errs, requireText("customer_name", *patch.CustomerName)...)
	}
	if patch.CustomerNIT != nil {
		errs = append(errs, requireText("customer_nit", *patch.CustomerNIT)...)
	}
	if patch.CustomerPhone != nil {
		errs = append(errs, requireText("customer_phone", *patch.CustomerPhone)...)
	}
	if patch.PartialPayment != nil {
		errs = append(errs, checkPartialPayment(*patch.PartialPayment, inv.Total)...)
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if patch.CustomerName != nil {
		inv.CustomerName = strings.TrimSpace(*patch.CustomerName)
	}
	if patch.CustomerNIT != nil {
		inv.CustomerNIT = strings.TrimSpace(*patch.CustomerNIT)
	}
	if patch.CustomerPhone != nil {
		inv.CustomerPhone = strings.TrimSpace(*patch.CustomerPhone)
	}
	if patch.Comment != nil {
		inv.Comment = strings.TrimSpace(*patch.Comment)
	}
	if patch.PartialPayment != nil {
		p := *patch.PartialPayment
		inv.PartialPayment = &p
	}
	inv.LastModified = l.clock()
	return inv, nil
}
