package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Operator is a PostgREST filter operator.
type Operator string

const (
	OpEq   Operator = "eq"   // равенство
	OpLike Operator = "like" // шаблон, * заменяет любую подстроку
)

// Filter is one "column=op.value" condition.
type Filter struct {
	Column string
	Op     Operator
	Value  string
}

// Eq returns column = value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Like returns column LIKE pattern, where * matches any substring.
func Like(column, pattern string) Filter {
	return Filter{Column: column, Op: OpLike, Value: pattern}
}

// Order sorts by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query is a row filter with ordering and an optional limit.
type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
}

// reserved query parameters that are not column filters
var reserved = map[string]struct{}{
	"select": {},
	"order":  {},
	"limit":  {},
	"offset": {},
}

// Values encodes q in PostgREST form.
func (q Query) Values() url.Values {
	values := url.Values{}
	for _, f := range q.Filters {
		values.Add(f.Column, string(f.Op)+"."+f.Value)
	}

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		values.Set("order", strings.Join(parts, ","))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	return values
}

// ParseQuery decodes PostgREST query parameters. Unknown operators are an error.
func ParseQuery(values url.Values) (Query, error) {
	var q Query

	for column, vals := range values {
		if _, ok := reserved[column]; ok {
			continue
		}
		for _, v := range vals {
			op, value, ok := strings.Cut(v, ".")
			if !ok {
				return Query{}, fmt.Errorf("invalid filter %s=%s", column, v)
			}
			switch Operator(op) {
			case OpEq, OpLike:
			default:
				return Query{}, fmt.Errorf("unsupported operator %q", op)
			}
			q.Filters = append(q.Filters, Filter{Column: column, Op: Operator(op), Value: value})
		}
	}

	if order := values.Get("order"); order != "" {
		for _, part := range strings.Split(order, ",") {
			column, dir, _ := strings.Cut(part, ".")
			if column == "" {
				return Query{}, fmt.Errorf("invalid order %q", order)
			}
			switch dir {
			case "", "asc":
				q.Order = append(q.Order, Order{Column: column})
			case "desc":
				q.Order = append(q.Order, Order{Column: column, Desc: true})
			default:
				return Query{}, fmt.Errorf("invalid order direction %q", dir)
			}
		}
	}

	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return Query{}, fmt.Errorf("invalid limit %q", limit)
		}
		q.Limit = n
	}

	return q, nil
}

// IDFilter returns the filter selecting one row by id.
func IDFilter(id string) url.Values {
	return Query{Filters: []Filter{Eq("id", id)}}.Values()
}
