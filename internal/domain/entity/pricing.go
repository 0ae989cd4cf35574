package entity

import "github.com/sangkips/pasvilla-invoicing/internal/domain/enum"

// Pricing is the tagged pricing variant of a product: either FlatPricing or
// PortionPricing. The interface is sealed to this package.
type Pricing interface {
	Mode() enum.PricingMode
	isPricing()
}

// FlatPricing is a fixed price per unit, with an optional unit label ("dozen", "box of 6")
type FlatPricing struct {
	Price     int64
	UnitLabel string
}

func (FlatPricing) Mode() enum.PricingMode { return enum.PricingModeFlat }
func (FlatPricing) isPricing()             {}

// PortionPricing prices an item by portion count, bounded inclusively by MinPortions and MaxPortions
type PortionPricing struct {
	PortionPrice int64
	MinPortions  int
	MaxPortions  int
}

func (PortionPricing) Mode() enum.PricingMode { return enum.PricingModePortion }
func (PortionPricing) isPricing()             {}

// Allows reports whether portions lies within the inclusive portion bounds
func (p PortionPricing) Allows(portions int) bool {
	return portions >= p.MinPortions && portions <= p.MaxPortions
}
