package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name                 string
		total, limit, offset int
		wantPage, wantPages  int
	}{
		{name: "first page", total: 41, limit: 20, offset: 0, wantPage: 1, wantPages: 3},
		{name: "last page", total: 41, limit: 20, offset: 40, wantPage: 3, wantPages: 3},
		{name: "exact fit", total: 40, limit: 20, offset: 20, wantPage: 2, wantPages: 2},
		{name: "empty", total: 0, limit: 20, offset: 0, wantPage: 1, wantPages: 0},
		{name: "no limit", total: 5, limit: 0, offset: 0, wantPage: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.total, tt.limit, tt.offset)
			assert.Equal(t, tt.wantPage, info.CurrentPage)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.total, info.TotalItems)
		})
	}
}
