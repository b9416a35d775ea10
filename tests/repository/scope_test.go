package repository_test

import (
	"testing"

	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePaging(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -5, 50, 1, 50},
		{"oversized page size clamps", 2, 5000, 2, 200},
		{"valid passthrough", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := repository.NormalizePaging(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestBuildOrderClause(t *testing.T) {
	fieldMap := map[string]string{
		"createdAt": "created_at",
		"rfqNumber": "rfq_number",
	}

	tests := []struct {
		name   string
		config repository.SortConfig
		want   string
	}{
		{"mapped field asc", repository.SortConfig{Field: "rfqNumber", Order: repository.SortOrderAsc}, "rfq_number ASC"},
		{"mapped field desc", repository.SortConfig{Field: "createdAt", Order: repository.SortOrderDesc}, "created_at DESC"},
		{"unknown field falls back", repository.SortConfig{Field: "password_hash", Order: repository.SortOrderAsc}, "created_at ASC"},
		{"injection attempt falls back", repository.SortConfig{Field: "id; DROP TABLE rfqs"}, "created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.BuildOrderClause(tt.config, fieldMap, "created_at"))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("asc"))
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("ASC"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("desc"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder(""))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("sideways"))
}
