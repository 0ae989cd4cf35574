package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
	"gorm.io/gorm"
)

// Invoice represents a committed sale. The ID is generated by the invoicing
// core and doubles as the primary key, so the store enforces its uniqueness.
type Invoice struct {
	ID                 string             `gorm:"primaryKey;size:50" json:"id"`
	Items              []InvoiceItem      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Total              int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CustomerName       string             `gorm:"size:255;not null;index" json:"customer_name"`
	CustomerNIT        string             `gorm:"column:customer_nit;size:50;not null;index" json:"customer_nit"`
	CustomerPhone      string             `gorm:"size:50;not null" json:"customer_phone"`
	Status             enum.InvoiceStatus `gorm:"size:20;not null;index" json:"status"`
	PartialPayment     *int64             `json:"-"` // Stored in cents, nil when absent
	CancellationReason string             `gorm:"type:text" json:"cancellation_reason,omitempty"`
	Comment            string             `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt          time.Time          `gorm:"not null;index" json:"created_at"`
	LastModified       time.Time          `gorm:"not null" json:"last_modified"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	var partial *float64
	if i.PartialPayment != nil {
		p := money.Float(*i.PartialPayment)
		partial = &p
	}
	return json.Marshal(&struct {
		Alias
		Total          float64  `json:"total"`
		PartialPayment *float64 `json:"partial_payment,omitempty"`
		Balance        float64  `json:"balance"`
	}{
		Alias:          Alias(i),
		Total:          money.Float(i.Total),
		PartialPayment: partial,
		Balance:        money.Float(i.Balance()),
	})
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// ItemsTotal sums the subtotals of all items
func (i *Invoice) ItemsTotal() int64 {
	var total int64
	for _, item := range i.Items {
		total += item.Subtotal
	}
	return total
}

// Paid returns the amount already paid towards the invoice
func (i *Invoice) Paid() int64 {
	switch {
	case i.Status == enum.InvoiceStatusCompleted:
		return i.Total
	case i.Status == enum.InvoiceStatusCancelled:
		return 0
	case i.PartialPayment != nil:
		return *i.PartialPayment
	}
	return 0
}

// Balance returns what is still owed on the invoice
func (i *Invoice) Balance() int64 {
	if i.Status == enum.InvoiceStatusCancelled {
		return 0
	}
	return i.Total - i.Paid()
}

// Clone returns a deep copy, so a stored invoice never aliases a caller's
func (i *Invoice) Clone() *Invoice {
	c := *i
	if i.PartialPayment != nil {
		p := *i.PartialPayment
		c.PartialPayment = &p
	}
	if i.Items != nil {
		c.Items = make([]InvoiceItem, len(i.Items))
		for n, item := range i.Items {
			c.Items[n] = item.clone()
		}
	}
	return &c
}

// InvoiceItem is a priced cart line frozen into an invoice. It keeps a
// snapshot of the product so later catalog changes do not alter history.
type InvoiceItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   string           `gorm:"size:50;not null;index" json:"invoice_id"`
	Position    int              `gorm:"not null" json:"position"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string           `gorm:"size:255;not null" json:"product_name"`
	Category    string           `gorm:"size:100" json:"category"`
	PricingMode enum.PricingMode `gorm:"size:20;not null" json:"pricing_mode"`
	UnitLabel   string           `gorm:"size:50" json:"unit_label,omitempty"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	Portions    *int             `json:"portions,omitempty"`
	UnitPrice   int64            `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Subtotal    int64            `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Subtotal  float64 `json:"subtotal"`
	}{
		Alias:     Alias(it),
		UnitPrice: money.Float(it.UnitPrice),
		Subtotal:  money.Float(it.Subtotal),
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

func (it InvoiceItem) clone() InvoiceItem {
	if it.Portions != nil {
		p := *it.Portions
		it.Portions = &p
	}
	return it
}

// InvoiceSummary is the compact, machine-readable payload a presentation
// layer encodes into a scannable code.
type InvoiceSummary struct {
	ID             string             `json:"id"`
	Date           time.Time          `json:"date"`
	Total          float64            `json:"total"`
	CustomerName   string             `json:"customer_name"`
	CustomerNIT    string             `json:"customer_nit"`
	Status         enum.InvoiceStatus `json:"status"`
	PartialPayment *float64           `json:"partial_payment,omitempty"`
}
