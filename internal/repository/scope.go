package repository

import (
	"context"
	"strings"

	"github.com/hateco-vn/quotation-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (created_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "createdAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config.
// fieldMap maps API field names to database column names.
// Returns the default sort if field is not in the whitelist.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// NormalizePaging clamps page and pageSize into valid ranges
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ApplyCustomerScope restricts a query to the calling customer's own rows.
// Internal staff queries are returned unchanged.
func ApplyCustomerScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyCustomerScopeWithColumn(ctx, query, "customer_id")
}

// ApplyCustomerScopeWithColumn applies the customer scope using a specific
// column name, for joined queries needing table qualification.
func ApplyCustomerScopeWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	userCtx, ok := auth.FromContext(ctx)
	if !ok || !userCtx.IsCustomer() {
		return query
	}
	if userCtx.CustomerID == nil {
		// Customer account without a linked customer row sees nothing
		return query.Where("1 = 0")
	}
	return query.Where(columnName+" = ?", *userCtx.CustomerID)
}
