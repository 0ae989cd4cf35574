package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"validation", NewFieldValidationError("customer_name", "required"), KindValidation, true},
		{"state conflict", NewStateConflictError("terminal"), KindStateConflict, true},
		{"uniqueness wrapped", fmt.Errorf("insert: %w", NewUniquenessConflictError("dup")), KindUniquenessConflict, true},
		{"not found vs validation", NewNotFoundError("Invoice"), KindValidation, false},
		{"plain error", fmt.Errorf("boom"), KindNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKind(tt.err, tt.kind))
		})
	}
}

func TestGetAppErrorFallsBackToInternal(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("db down"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "db down", appErr.Message)
}

func TestConflictKindsShareStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, NewStateConflictError("x").Code)
	assert.Equal(t, http.StatusConflict, NewUniquenessConflictError("x").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, NewValidationError(nil).Code)
}
