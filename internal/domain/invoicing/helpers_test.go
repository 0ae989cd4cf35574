package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func cents(v int64) *int64 { return &v }

func str(s string) *string { return &s }

func cakeProduct() entity.Product {
	p := entity.NewPortionProduct("PAS-001", "Pastel de Chocolate", "Pasteles", "", 2000, 8, 24)
	p.ID = uuid.New()
	return p
}

func cupcakeProduct() entity.Product {
	p := entity.NewFlatProduct("CUP-001", "Cupcakes Vainilla", "Cupcakes", "", 1500, "caja de 6")
	p.ID = uuid.New()
	return p
}

func pendingInvoice(total int64) *entity.Invoice {
	return &entity.Invoice{
		ID:            "pasvilla007",
		Total:         total,
		CustomerName:  "María García",
		CustomerNIT:   "1234567-8",
		CustomerPhone: "5555-0101",
		Status:        enum.InvoiceStatusPending,
		CreatedAt:     fixedNow.Add(-time.Hour),
		LastModified:  fixedNow.Add(-time.Hour),
	}
}
