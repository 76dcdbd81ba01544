package repo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanamiya/console/pkg/listkit"
)

// BuildFilters turns normalized search parameters into a WHERE clause.
// textCols are matched against the free-text query with ILIKE; fkCols
// maps a parameter key to its column name.
func BuildFilters(params listkit.SearchParams, textCols []string, fkCols map[string]string) ([]string, []any) {
	where := []string{"1 = 1"}
	args := []any{}

	if q, ok := params[listkit.KeyQuery]; ok {
		clauses := make([]string, 0, len(textCols))
		args = append(args, "%"+q+"%")
		for _, col := range textCols {
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}
	if status, ok := params[listkit.KeyStatus]; ok {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	for key, col := range fkCols {
		if v, ok := params[key]; ok {
			args = append(args, v)
			where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	return where, args
}

// OrderClause maps the sortBy parameter through an allow-list of
// sortable columns. Unknown sort keys fall back to created_at.
func OrderClause(params listkit.SearchParams, fieldMap map[string]string) string {
	col, ok := fieldMap[params[listkit.KeySortBy]]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if params[listkit.KeySortOrder] == "desc" {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// LimitClause honors an optional numeric "limit" parameter.
func LimitClause(params listkit.SearchParams) string {
	if raw, ok := params["limit"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return fmt.Sprintf(" LIMIT %d", n)
		}
	}
	return ""
}
