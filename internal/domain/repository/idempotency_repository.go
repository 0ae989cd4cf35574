package repository

import (
	"context"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and endpoint
	GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error)
	// Reserve inserts a pending key unless a live entry exists for the same key
	// and endpoint. An expired entry is replaced. It reports whether the key
	// was reserved.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Create stores the finished response, replacing the reservation
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Delete releases a key so the request can be retried
	Delete(ctx context.Context, key, endpoint string) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
