package persistence

import (
	"strings"

	"github.com/trycco/storefront/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes orderDir to ASC or DESC, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var CategorySortFields = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

var SubCategorySortFields = map[string]bool{
	"name":       true,
	"created_at": true,
}

var TagSortFields = map[string]bool{
	"name":       true,
	"created_at": true,
}

var OrderSortFields = map[string]bool{
	"created_at":    true,
	"customer_name": true,
	"number":        true,
}

var NotificationSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// applyOrderAndPage applies a whitelisted order, with id as the tiebreak,
// and the page window described by filter.
func applyOrderAndPage(query *gorm.DB, table string, allowed map[string]bool, defaultField string, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(table + "." + field + " " + ValidateSortOrder(filter.OrderDir) + ", " + table + ".id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
