package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/internal/config"
)

// requiredHeaders are always allowed: the POS client sends them on invoice creation
var requiredHeaders = []string{"Content-Type", IdempotencyKeyHeader, RequestIDHeader}

// CORSMiddleware lets the point-of-sale front end call the API from the
// configured origins. No cookies or credentials are involved, so with no
// origins configured every origin is allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: cfg.AllowedMethods,
		AllowHeaders: append([]string{"Accept", "Origin"}, cfg.AllowedHeaders...),
		ExposeHeaders: []string{
			RequestIDHeader,
			"X-Idempotency-Replayed",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	}
	for _, h := range requiredHeaders {
		if !slices.Contains(corsConfig.AllowHeaders, h) {
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h)
		}
	}

	return cors.New(corsConfig)
}
