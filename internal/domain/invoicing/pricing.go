// Package invoicing holds the invoice computation and lifecycle rules:
// line pricing, identifier generation, invoice assembly, status transitions
// and list filtering. Everything here is a pure function of its inputs; the
// stores and transport around it live elsewhere.
package invoicing

import (
	"fmt"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
)

// CartLine is a product the cashier put in the cart. Portions is only read
// for portion-priced products.
type CartLine struct {
	Product  entity.Product
	Quantity int
	Portions int
}

// PricedLine is a CartLine with its derived unit price and subtotal. The
// derived fields are unexported so subtotal == unitPrice * quantity always holds.
type PricedLine struct {
	line      CartLine
	unitPrice int64
	subtotal  int64
}

// Line returns the cart line this price was computed from
func (p PricedLine) Line() CartLine { return p.line }

// UnitPrice returns the price of one unit in cents
func (p PricedLine) UnitPrice() int64 { return p.unitPrice }

// Subtotal returns unit price times quantity in cents
func (p PricedLine) Subtotal() int64 { return p.subtotal }

// Item freezes the priced line into an invoice item at the given position
func (p PricedLine) Item(position int) entity.InvoiceItem {
	product := p.line.Product
	item := entity.InvoiceItem{
		Position:    position,
		ProductID:   product.ID,
		ProductName: product.Name,
		Category:    product.Category,
		PricingMode: product.Pricing().Mode(),
		Quantity:    p.line.Quantity,
		UnitPrice:   p.unitPrice,
		Subtotal:    p.subtotal,
	}
	switch v := product.Pricing().(type) {
	case entity.PortionPricing:
		portions := p.line.Portions
		item.Portions = &portions
	case entity.FlatPricing:
		item.UnitLabel = v.UnitLabel
	}
	return item
}

// PriceLine computes the unit price and subtotal of a cart line. It does not
// validate or clamp; callers run ValidateCartLine first.
func PriceLine(line CartLine) PricedLine {
	var unitPrice int64
	switch v := line.Product.Pricing().(type) {
	case entity.PortionPricing:
		unitPrice = int64(line.Portions) * v.PortionPrice
	case entity.FlatPricing:
		unitPrice = v.Price
	}
	return PricedLine{
		line:      line,
		unitPrice: unitPrice,
		subtotal:  unitPrice * int64(line.Quantity),
	}
}

// ComputeTotal sums the subtotals of lines. An empty slice totals 0.
// Lines must come from a cart whose CheckedTotal is ok.
func ComputeTotal(lines []PricedLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.subtotal
	}
	return total
}

// CheckedTotal is ComputeTotal that reports false when the sum leaves the
// int64 cents range.
func CheckedTotal(lines []PricedLine) (int64, bool) {
	var total int64
	for _, l := range lines {
		var ok bool
		if total, ok = money.Add(total, l.subtotal); !ok {
			return 0, false
		}
	}
	return total, true
}

// lineFits reports whether the unit price and subtotal of line fit in int64 cents
func lineFits(line CartLine) bool {
	unitPrice := int64(0)
	ok := true
	switch v := line.Product.Pricing().(type) {
	case entity.PortionPricing:
		unitPrice, ok = money.Mul(int64(line.Portions), v.PortionPrice)
	case entity.FlatPricing:
		unitPrice, ok = v.Price, v.Price >= 0
	}
	if !ok {
		return false
	}
	_, ok = money.Mul(unitPrice, int64(line.Quantity))
	return ok
}

// ValidateCartLine reports the field errors of the cart line at index. A line
// whose amounts would overflow int64 cents is rejected on its quantity.
func ValidateCartLine(index int, line CartLine) []apperror.FieldError {
	var errs []apperror.FieldError
	prefix := fmt.Sprintf("items[%d]", index)

	if line.Quantity < 1 {
		errs = append(errs, apperror.FieldError{
			Field:   prefix + ".quantity",
			Message: "quantity must be at least 1",
		})
	}

	if pp, ok := line.Product.Pricing().(entity.PortionPricing); ok && !pp.Allows(line.Portions) {
		errs = append(errs, apperror.FieldError{
			Field: prefix + ".portions",
			Message: fmt.Sprintf("%s requires between %d and %d portions, got %d",
				line.Product.Name, pp.MinPortions, pp.MaxPortions, line.Portions),
		})
	}

	if len(errs) == 0 && !lineFits(line) {
		errs = append(errs, apperror.FieldError{
			Field:   prefix + ".quantity",
			Message: "line amount exceeds the supported range",
		})
	}

	return errs
}
