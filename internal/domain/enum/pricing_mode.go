package enum

import (
	"database/sql/driver"
	"fmt"
)

// PricingMode tells how a product's unit price is derived
type PricingMode string

const (
	// PricingModeFlat is a fixed price per unit
	PricingModeFlat PricingMode = "flat"
	// PricingModePortion is a price per portion within a bounded portion range
	PricingModePortion PricingMode = "portion"
)

func (m PricingMode) String() string {
	return string(m)
}

func (m PricingMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PricingMode) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = PricingModeFlat
	case string:
		*m = PricingMode(v)
	case []byte:
		*m = PricingMode(v)
	default:
		return fmt.Errorf("cannot scan %T into PricingMode", value)
	}
	return nil
}
