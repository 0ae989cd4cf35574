package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/dto/response"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
	"github.com/shopspring/decimal"
)

// RequestLogger returns the request-scoped logger set by the logger middleware
func RequestLogger(c *gin.Context) zerolog.Logger {
	return logger.WithRequestID(c.GetString("request_id"))
}

// respondError writes err through the response envelope, logging server-side failures
func respondError(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		log := RequestLogger(c)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	response.Error(c, appErr)
}

// centsOf converts an optional decimal amount to cents, reporting amounts
// beyond the cents range as a validation error on field
func centsOf(field string, amount *decimal.Decimal) (*int64, error) {
	if amount == nil {
		return nil, nil
	}
	cents, err := money.ToCents(*amount)
	if err != nil {
		return nil, apperror.NewFieldValidationError(field, field+" is out of range")
	}
	return &cents, nil
}

// parsePrice parses an optional decimal query value into cents
func parsePrice(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.NewFieldValidationError(field, field+" must be a decimal amount")
	}
	return centsOf(field, &amount)
}
