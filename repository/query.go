package repository

import (
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// orderClause turns "field" or "-field" into an ORDER BY expression using
// only whitelisted columns.
func orderClause(ordering string, allowed map[string]string, fallback string) string {
	if ordering == "" {
		return fallback
	}
	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = strings.TrimPrefix(ordering, "-")
	}
	column, ok := allowed[ordering]
	if !ok {
		return fallback
	}
	return column + " " + direction
}

func paginate(query *gorm.DB, page, limit int) *gorm.DB {
	return query.Offset((page - 1) * limit).Limit(limit)
}

func likePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}
