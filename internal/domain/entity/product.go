package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
	"gorm.io/gorm"
)

// Product represents a catalog item. Products are reference data: the
// invoicing core reads them but never mutates them.
//
// The pricing columns are only meaningful for the matching PricingMode;
// use Pricing() rather than reading them directly.
type Product struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	Code         string           `gorm:"size:100;unique;not null"`
	Name         string           `gorm:"size:255;not null;index"`
	Category     string           `gorm:"size:100;not null;index"`
	Description  string           `gorm:"type:text"`
	PricingMode  enum.PricingMode `gorm:"size:20;not null;default:flat"`
	Price        int64            `gorm:"default:0"` // Stored in cents
	UnitLabel    string           `gorm:"size:50"`
	PortionPrice int64            `gorm:"default:0"` // Stored in cents
	MinPortions  int              `gorm:"default:0"`
	MaxPortions  int              `gorm:"default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewFlatProduct creates a product sold at a fixed price per unit
func NewFlatProduct(code, name, category, description string, price int64, unitLabel string) Product {
	p := Product{Code: code, Name: name, Category: category, Description: description}
	p.SetPricing(FlatPricing{Price: price, UnitLabel: unitLabel})
	return p
}

// NewPortionProduct creates a product priced per portion within [minPortions, maxPortions]
func NewPortionProduct(code, name, category, description string, portionPrice int64, minPortions, maxPortions int) Product {
	p := Product{Code: code, Name: name, Category: category, Description: description}
	p.SetPricing(PortionPricing{PortionPrice: portionPrice, MinPortions: minPortions, MaxPortions: maxPortions})
	return p
}

// Pricing returns the product's pricing variant
func (p Product) Pricing() Pricing {
	if p.PricingMode == enum.PricingModePortion {
		return PortionPricing{
			PortionPrice: p.PortionPrice,
			MinPortions:  p.MinPortions,
			MaxPortions:  p.MaxPortions,
		}
	}
	return FlatPricing{Price: p.Price, UnitLabel: p.UnitLabel}
}

// SetPricing replaces the pricing variant and clears the columns of the other mode
func (p *Product) SetPricing(pricing Pricing) {
	p.Price, p.UnitLabel = 0, ""
	p.PortionPrice, p.MinPortions, p.MaxPortions = 0, 0, 0

	switch v := pricing.(type) {
	case FlatPricing:
		p.PricingMode = enum.PricingModeFlat
		p.Price = v.Price
		p.UnitLabel = v.UnitLabel
	case PortionPricing:
		p.PricingMode = enum.PricingModePortion
		p.PortionPrice = v.PortionPrice
		p.MinPortions = v.MinPortions
		p.MaxPortions = v.MaxPortions
	}
}

// StartingPrice is the lowest unit price a single item of this product can have
func (p Product) StartingPrice() int64 {
	switch v := p.Pricing().(type) {
	case PortionPricing:
		return v.PortionPrice * int64(v.MinPortions)
	case FlatPricing:
		return v.Price
	}
	return 0
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

type pricingJSON struct {
	Mode         enum.PricingMode `json:"mode"`
	Price        *float64         `json:"price,omitempty"`
	UnitLabel    string           `json:"unit_label,omitempty"`
	PortionPrice *float64         `json:"portion_price,omitempty"`
	MinPortions  *int             `json:"min_portions,omitempty"`
	MaxPortions  *int             `json:"max_portions,omitempty"`
}

// MarshalJSON renders the pricing variant as a nested object with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	pricing := pricingJSON{Mode: p.PricingMode}
	switch v := p.Pricing().(type) {
	case FlatPricing:
		price := money.Float(v.Price)
		pricing.Price = &price
		pricing.UnitLabel = v.UnitLabel
	case PortionPricing:
		portionPrice := money.Float(v.PortionPrice)
		pricing.PortionPrice = &portionPrice
		pricing.MinPortions = &v.MinPortions
		pricing.MaxPortions = &v.MaxPortions
	}

	return json.Marshal(struct {
		ID            uuid.UUID   `json:"id"`
		Code          string      `json:"code"`
		Name          string      `json:"name"`
		Category      string      `json:"category"`
		Description   string      `json:"description,omitempty"`
		Pricing       pricingJSON `json:"pricing"`
		StartingPrice float64     `json:"starting_price"`
	}{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		Pricing:       pricing,
		StartingPrice: money.Float(p.StartingPrice()),
	})
}
