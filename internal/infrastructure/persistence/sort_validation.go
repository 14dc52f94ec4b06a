package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list endpoint may order by. Request
// values never reach SQL unless they match a key exactly.
type sortColumns struct {
	allowed  map[string]bool
	fallback string
}

// ideaSortColumns are the orderings offered on the idea list
var ideaSortColumns = sortColumns{
	allowed: map[string]bool{
		"created_at":    true,
		"updated_at":    true,
		"number":        true,
		"title":         true,
		"cost_estimate": true,
		"approved":      true,
	},
	fallback: "created_at",
}

// column returns field when whitelisted, the fallback otherwise
func (s sortColumns) column(field string) string {
	field = strings.TrimSpace(field)
	if s.allowed[field] {
		return field
	}
	return s.fallback
}

// orderBy builds the ORDER BY clause. Direction defaults to descending;
// rows with equal keys are ordered by id so pages stay stable.
func (s sortColumns) orderBy(field, dir string) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: s.column(field)}, Desc: !isAscending(dir)},
		{Column: clause.Column{Name: "id"}},
	}}
}

func isAscending(dir string) bool {
	return strings.EqualFold(strings.TrimSpace(dir), "asc")
}
