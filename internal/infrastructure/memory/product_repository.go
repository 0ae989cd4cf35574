package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
)

type productRepository struct {
	db *memdb.MemDB
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableProducts, "code", product.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewUniquenessConflictError(fmt.Sprintf("product code %s already exists", product.Code))
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now

	stored := *product
	if err := txn.Insert(tableProducts, &stored); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", product.Code, err)
	}
	txn.Commit()
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.first("id", id)
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.first("code", code)
}

func (r *productRepository) first(index string, arg interface{}) (*entity.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableProducts, index, arg)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	p := *obj.(*entity.Product)
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		obj, err := txn.First(tableProducts, "id", id)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			products = append(products, *obj.(*entity.Product))
		}
	}
	return products, nil
}

func (r *productRepository) all() ([]entity.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableProducts, "id")
	if err != nil {
		return nil, err
	}
	var products []entity.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		products = append(products, *obj.(*entity.Product))
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	products, err := r.all()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]entity.Product, 0, len(products))
	for i := range products {
		if params.Match(&products[i]) {
			matched = append(matched, products[i])
		}
	}
	slices.SortFunc(matched, func(a, b entity.Product) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})

	params.Pagination.Validate()
	start, end := params.Pagination.Bounds(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	products, err := r.all()
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(products))
	for _, p := range products {
		categories = append(categories, p.Category)
	}
	slices.Sort(categories)
	return slices.Compact(categories), nil
}
