package sqlite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/pkg/api"
)

// table описывает колонки, доступные для фильтрации и сортировки
type table struct {
	columns      map[string]string // колонка API -> выражение SQL
	defaultOrder string
}

// where builds the WHERE clause of q. like uses GLOB, so * keeps its
// meaning and matching is case-sensitive.
func (t table) where(q api.Query) (string, []any, error) {
	if len(q.Filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(q.Filters))
	args := make([]any, 0, len(q.Filters))
	for _, f := range q.Filters {
		expr, ok := t.columns[f.Column]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown column %q", storage.ErrInvalidQuery, f.Column)
		}
		switch f.Op {
		case api.OpEq:
			conds = append(conds, expr+" = ?")
		case api.OpLike:
			conds = append(conds, expr+" GLOB ?")
		default:
			return "", nil, fmt.Errorf("%w: unsupported operator %q", storage.ErrInvalidQuery, f.Op)
		}
		args = append(args, f.Value)
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// orderLimit builds ORDER BY and LIMIT. The default order is used when q
// has none.
func (t table) orderLimit(q api.Query) (string, error) {
	var b strings.Builder

	if len(q.Order) == 0 {
		b.WriteString(" ORDER BY " + t.defaultOrder)
	} else {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			expr, ok := t.columns[o.Column]
			if !ok {
				return "", fmt.Errorf("%w: unknown order column %q", storage.ErrInvalidQuery, o.Column)
			}
			dir := " ASC"
			if o.Desc {
				dir = " DESC"
			}
			parts = append(parts, expr+dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return b.String(), nil
}

// placeholders returns "?, ?, ..." for n values
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
