package request

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest represents a cart line
type InvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Portions  int       `json:"portions"`
}

// CreateInvoiceRequest represents an invoice creation request. Field rules
// are enforced by the invoicing core so every violation is reported at once.
type CreateInvoiceRequest struct {
	Items          []InvoiceItemRequest `json:"items"`
	CustomerName   string               `json:"customer_name"`
	CustomerNIT    string               `json:"customer_nit"`
	CustomerPhone  string               `json:"customer_phone"`
	Status         string               `json:"status"`
	Comment        string               `json:"comment"`
	PartialPayment *decimal.Decimal     `json:"partial_payment"`
}

// UpdateInvoiceStatusRequest represents a lifecycle transition request
type UpdateInvoiceStatusRequest struct {
	Status             string           `json:"status" binding:"required"`
	PartialPayment     *decimal.Decimal `json:"partial_payment"`
	CancellationReason string           `json:"cancellation_reason"`
}

// UpdateInvoiceRequest represents a general edit. ID, Status and Items are
// only decoded so their presence can be rejected.
type UpdateInvoiceRequest struct {
	ID             json.RawMessage  `json:"id"`
	Status         json.RawMessage  `json:"status"`
	Items          json.RawMessage  `json:"items"`
	CustomerName   *string          `json:"customer_name"`
	CustomerNIT    *string          `json:"customer_nit"`
	CustomerPhone  *string          `json:"customer_phone"`
	Comment        *string          `json:"comment"`
	PartialPayment *decimal.Decimal `json:"partial_payment"`
}

// ForbiddenFields returns the immutable fields present in the request
func (r *UpdateInvoiceRequest) ForbiddenFields() []string {
	var fields []string
	if r.ID != nil {
		fields = append(fields, "id")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.Items != nil {
		fields = append(fields, "items")
	}
	return fields
}

// InvoiceFilterRequest represents invoice list parameters
type InvoiceFilterRequest struct {
	Status  string `form:"status"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
