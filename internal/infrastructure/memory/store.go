// Package memory implements the repositories on an in-process go-memdb
// database. It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
)

const (
	tableInvoices    = "invoices"
	tableProducts    = "products"
	tableIdempotency = "idempotency_keys"
)

// Store is an in-memory database holding invoices, products and idempotency keys.
// Objects are cloned on the way in and out; memdb requires stored objects to
// be treated as immutable.
type Store struct {
	db *memdb.MemDB
}

// NewStore creates an empty store
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory store: %w", err)
	}
	return &Store{db: db}, nil
}

// Invoices returns the store's invoice repository
func (s *Store) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{db: s.db}
}

// Products returns the store's product repository
func (s *Store) Products() repository.ProductRepository {
	return &productRepository{db: s.db}
}

// Idempotency returns the store's idempotency key repository
func (s *Store) Idempotency() repository.IdempotencyRepository {
	return &idempotencyRepository{db: s.db}
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableInvoices: {
				Name: tableInvoices,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"status": {
						Name:    "status",
						Indexer: &memdb.StringFieldIndex{Field: "Status"},
					},
				},
			},
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: uuidIndex(func(raw interface{}) (uuid.UUID, bool) {
							p, ok := raw.(*entity.Product)
							if !ok {
								return uuid.Nil, false
							}
							return p.ID, true
						}),
					},
					"code": {
						Name:    "code",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Code"},
					},
				},
			},
			tableIdempotency: {
				Name: tableIdempotency,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "Key"},
								&memdb.StringFieldIndex{Field: "Endpoint"},
							},
						},
					},
				},
			},
		},
	}
}

// uuidIndex indexes a uuid.UUID field by its 16 raw bytes
type uuidIndex func(raw interface{}) (uuid.UUID, bool)

func (f uuidIndex) FromObject(raw interface{}) (bool, []byte, error) {
	id, ok := f(raw)
	if !ok {
		return false, nil, fmt.Errorf("unexpected object type %T", raw)
	}
	if id == uuid.Nil {
		return false, nil, nil
	}
	return true, append([]byte(nil), id[:]...), nil
}

func (f uuidIndex) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	id, ok := args[0].(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("argument must be a uuid.UUID: %#v", args[0])
	}
	return append([]byte(nil), id[:]...), nil
}
