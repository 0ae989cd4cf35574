package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
)

type idempotencyRepository struct {
	db *memdb.MemDB
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableIdempotency, "id", key, endpoint)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	ikey := *obj.(*entity.IdempotencyKey)
	return &ikey, nil
}

func (r *idempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableIdempotency, "id", ikey.Key, ikey.Endpoint)
	if err != nil {
		return false, err
	}
	if obj != nil && !obj.(*entity.IdempotencyKey).IsExpired() {
		return false, nil
	}

	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	stored := *ikey
	if err := txn.Insert(tableIdempotency, &stored); err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	txn.Commit()
	return true, nil
}

func (r *idempotencyRepository) Delete(ctx context.Context, key, endpoint string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableIdempotency, "id", key, endpoint); err != nil {
		return fmt.Errorf("failed to delete idempotency key: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}

	stored := *ikey
	if err := txn.Insert(tableIdempotency, &stored); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(tableIdempotency, "id")
	if err != nil {
		return err
	}
	var expired []*entity.IdempotencyKey
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if ikey := obj.(*entity.IdempotencyKey); ikey.IsExpired() {
			expired = append(expired, ikey)
		}
	}
	for _, ikey := range expired {
		if err := txn.Delete(tableIdempotency, ikey); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}
