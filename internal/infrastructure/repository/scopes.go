package repository

import (
	"strings"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into an ILIKE substring pattern with the
// wildcard characters escaped
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// InvoiceFilterScope returns a GORM scope applying an invoice Filter: exact
// status, and a case-insensitive substring search over name, NIT and id
func InvoiceFilterScope(f invoicing.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		if f.Search != "" {
			pattern := containsPattern(f.Search)
			db = db.Where("customer_name ILIKE ? OR customer_nit ILIKE ? OR id ILIKE ?", pattern, pattern, pattern)
		}
		return db
	}
}

// PaginateScope returns a GORM scope applying offset/limit from page params
func PaginateScope(p *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p.Validate()
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}
