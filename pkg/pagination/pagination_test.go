package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClampsParams(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name       string
		params     PaginationParams
		n          int
		start, end int
	}{
		{"first page", PaginationParams{Page: 1, PerPage: 15}, 40, 0, 15},
		{"last partial page", PaginationParams{Page: 3, PerPage: 15}, 40, 30, 40},
		{"past the end", PaginationParams{Page: 9, PerPage: 15}, 40, 40, 40},
		{"empty set", PaginationParams{Page: 1, PerPage: 15}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.params.Bounds(tt.n)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 15, 40)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
