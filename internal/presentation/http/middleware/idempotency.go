package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/dto/response"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// DefaultIdempotencyKeyTTL is how long keys are valid when no TTL is configured
	DefaultIdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a request already processed
// under the same Idempotency-Key and endpoint. The key is reserved before the
// handler runs, so a concurrent duplicate gets 409 instead of a second
// invoice. Server errors release the key so a failed creation can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		// Only apply to POST, PUT, PATCH methods
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := logger.WithRequestID(c.GetString("request_id"))
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, endpoint)
		if err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("idempotency lookup failed")
			c.Next()
			return
		}
		if existing != nil && !existing.IsExpired() {
			replay(c, existing)
			return
		}

		reserved, err := config.Repo.Reserve(ctx, &entity.IdempotencyKey{
			Key:       idempotencyKey,
			Endpoint:  endpoint,
			ExpiresAt: time.Now().Add(ttl),
		})
		if err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("failed to reserve idempotency key")
			c.Next()
			return
		}
		if !reserved {
			// another request took the key between the lookup and the reservation
			existing, err = config.Repo.GetByKey(ctx, idempotencyKey, endpoint)
			if err != nil || existing == nil {
				existing = &entity.IdempotencyKey{}
			}
			replay(c, existing)
			return
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		stored := false
		defer func() {
			if stored {
				return
			}
			if err := config.Repo.Delete(context.WithoutCancel(ctx), idempotencyKey, endpoint); err != nil {
				log.Warn().Err(err).Str("endpoint", endpoint).Msg("failed to release idempotency key")
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			Endpoint:     endpoint,
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(ttl),
		}
		if err := config.Repo.Create(context.WithoutCancel(ctx), ikey); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("failed to store idempotency key")
			return
		}
		stored = true
	}
}

// replay answers with the stored response, or 409 while the first request
// holding the key is still running
func replay(c *gin.Context, ikey *entity.IdempotencyKey) {
	if ikey.IsPending() {
		response.Error(c, apperror.NewConflictError("A request with this Idempotency-Key is still in progress"))
		c.Abort()
		return
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(ikey.ResponseCode, "application/json; charset=utf-8", []byte(ikey.ResponseBody))
	c.Abort()
}
