package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Meta    *Meta                 `json:"meta,omitempty"`
}

// Meta ties a response to the request that produced it
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func write(c *gin.Context, code int, body APIResponse) {
	body.Meta = newMeta(c)
	c.JSON(code, body)
}

// OK sends a 200 with data
func OK(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// Created sends a 201 with the created resource
func Created(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessWithPagination sends a 200 with one page of items
func SuccessWithPagination[T any](c *gin.Context, message string, result *pagination.PaginatedResult[T]) {
	write(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: result})
}

// Error sends err with the status of its AppError. Validation failures carry
// their per-field errors; errors outside apperror become a 500.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	write(c, appErr.Code, APIResponse{Message: appErr.Message, Errors: appErr.Errors})
}

// BadRequest sends a 400 for a body or parameter that could not be decoded
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.NewBadRequestError(message))
}

// TooManyRequests sends a 429 from the rate limiter
func TooManyRequests(c *gin.Context, message string) {
	Error(c, apperror.NewAppError(http.StatusTooManyRequests, message))
}
