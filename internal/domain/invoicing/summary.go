package invoicing

import (
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
)

// Summarize returns the compact payload encoded into an invoice's scan code
func Summarize(inv *entity.Invoice) entity.InvoiceSummary {
	s := entity.InvoiceSummary{
		ID:           inv.ID,
		Date:         inv.CreatedAt,
		Total:        money.Float(inv.Total),
		CustomerName: inv.CustomerName,
		CustomerNIT:  inv.CustomerNIT,
		Status:       inv.Status,
	}
	if inv.PartialPayment != nil {
		p := money.Float(*inv.PartialPayment)
		s.PartialPayment = &p
	}
	return s
}
