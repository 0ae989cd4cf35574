package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus represents the payment/cancellation status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every known status in lifecycle order
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusPartial,
	InvoiceStatusCompleted,
	InvoiceStatusCancelled,
}

// ParseInvoiceStatus parses a status name, case-insensitively
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
	return status, nil
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusCompleted, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions or edits are permitted
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCompleted || s == InvoiceStatusCancelled
}

// IsInitial reports whether an invoice may be created in this status
func (s InvoiceStatus) IsInitial() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}
