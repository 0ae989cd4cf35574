package invoicing

import (
	"strings"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
)

// Predicate reports whether an invoice belongs in a result set
type Predicate func(*entity.Invoice) bool

// Filter selects invoices by exact status and free-text search. A nil Status
// and an empty Search match everything.
type Filter struct {
	Status *enum.InvoiceStatus
	Search string
}

// BuildFilter normalizes list query inputs into a Filter. The search text is
// trimmed; a blank one is dropped.
func BuildFilter(status *enum.InvoiceStatus, search string) Filter {
	f := Filter{Search: strings.TrimSpace(search)}
	if status != nil {
		s := *status
		f.Status = &s
	}
	return f
}

// IsZero reports whether the filter matches every invoice
func (f Filter) IsZero() bool {
	return f.Status == nil && f.Search == ""
}

// Match applies the filter to a single invoice. Search is a case-insensitive
// substring match against customer name, customer NIT or id.
func (f Filter) Match(inv *entity.Invoice) bool {
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, field := range []string{inv.CustomerName, inv.CustomerNIT, inv.ID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Predicate returns Match as a standalone function
func (f Filter) Predicate() Predicate {
	return f.Match
}

// CompareRecency orders invoices newest first: by CreatedAt, then by the
// numeric id sequence for invoices created in the same instant.
func CompareRecency(a, b *entity.Invoice) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	an, aok := Sequence(a.ID)
	bn, bok := Sequence(b.ID)
	if aok && bok {
		if c := bn.Cmp(an); c != 0 {
			return c
		}
	}
	return strings.Compare(b.ID, a.ID)
}
