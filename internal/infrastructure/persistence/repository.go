package persistence

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/shopstack/backend/internal/domain/shared"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// applyPagination applies page/page-size from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies the filter's ordering, falling back to the given
// default. Order columns must be plain identifiers.
func applyOrdering(query *gorm.DB, filter shared.Filter, fallback string) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" || !identifierPattern.MatchString(orderBy) {
		orderBy = fallback
	}
	dir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		dir = "DESC"
	}
	return query.Order(orderBy + " " + dir)
}

func searchPattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

// saveWithVersionGuard updates an aggregate only when the stored version is
// behind the in-memory one. Domain mutations bump the version before saving,
// so zero affected rows means another writer got there first.
func saveWithVersionGuard(db *gorm.DB, entity interface{}, version int, omit ...string) error {
	query := db.Model(entity).Where("version < ?", version).Select("*")
	if len(omit) > 0 {
		query = query.Omit(omit...)
	}
	result := query.Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
