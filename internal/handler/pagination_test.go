package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultPageSize, 0},
		{"explicit values", "?limit=5&offset=40", 5, 40},
		{"oversized limit is clamped", "?limit=500", MaxPageSize, 0},
		{"zero limit gets the default", "?limit=0", DefaultPageSize, 0},
		{"negative offset resets", "?limit=10&offset=-3", 10, 0},
		{"garbage gets the defaults", "?limit=abc&offset=xyz", DefaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/notificaciones"+tt.query, nil)
			page := ParsePagination(r)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}
