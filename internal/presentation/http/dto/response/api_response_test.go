package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, fn func(c *gin.Context)) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")
	fn(c)

	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorCarriesFieldErrors(t *testing.T) {
	code, body := render(t, func(c *gin.Context) {
		Error(c, apperror.NewFieldValidationError("partial_payment", "partial_payment is out of range"))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, body.Success)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "partial_payment", body.Errors[0].Field)
	assert.Equal(t, "req-1", body.Meta.RequestID)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		fn   func(c *gin.Context)
		want int
	}{
		{"plain error", func(c *gin.Context) { Error(c, errors.New("db down")) }, http.StatusInternalServerError},
		{"state conflict", func(c *gin.Context) { Error(c, apperror.NewStateConflictError("terminal state")) }, http.StatusConflict},
		{"bad request", func(c *gin.Context) { BadRequest(c, "Invalid request body") }, http.StatusBadRequest},
		{"rate limited", func(c *gin.Context) { TooManyRequests(c, "slow down") }, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := render(t, tt.fn)
			assert.Equal(t, tt.want, code)
			assert.False(t, body.Success)
			assert.Empty(t, body.Errors)
		})
	}
}

func TestCreatedWrapsData(t *testing.T) {
	code, body := render(t, func(c *gin.Context) {
		Created(c, "Invoice created successfully", gin.H{"id": "pasvilla001"})
	})

	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]interface{}{"id": "pasvilla001"}, body.Data)
}
