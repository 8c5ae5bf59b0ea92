package repository

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"auction-marketplace/internal/marketerrors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query carries list filters, sorting and pagination taken from request parameters
type Query map[string]string

// QueryFromValues keeps the first value of every URL parameter
func QueryFromValues(values url.Values) Query {
	q := make(Query, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			q[key] = vals[0]
		}
	}
	return q
}

// With returns a copy of q with key set to value
func (q Query) With(key, value string) Query {
	out := make(Query, len(q)+1)
	for k, v := range q {
		out[k] = v
	}
	out[key] = value
	return out
}

// Page resolves limit and offset from limit/offset or page/size parameters
func (q Query) Page() (limit, offset int) {
	limit = DefaultPageSize
	if v, ok := q["limit"]; ok {
		limit = parseIntDefault(v, DefaultPageSize)
	} else if v, ok := q["size"]; ok {
		limit = parseIntDefault(v, DefaultPageSize)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if v, ok := q["offset"]; ok {
		offset = parseIntDefault(v, 0)
	} else if v, ok := q["page"]; ok {
		page := parseIntDefault(v, 1)
		if page < 1 {
			page = 1
		}
		offset = (page - 1) * limit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Filter turns one query value into a WHERE condition with ? placeholders
type Filter func(value string) (clause string, args []any, err error)

func invalidFilter(column, value string) error {
	return fmt.Errorf("filter %s=%q: %w", column, value, marketerrors.ErrInvalidInput)
}

// EqualsInt matches an integer column
func EqualsInt(column string) Filter {
	return func(value string) (string, []any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return "", nil, invalidFilter(column, value)
		}
		return column + " = ?", []any{n}, nil
	}
}

// EqualsString matches a text column exactly
func EqualsString(column string) Filter {
	return func(value string) (string, []any, error) {
		return column + " = ?", []any{value}, nil
	}
}

// EqualsBool matches a boolean column
func EqualsBool(column string) Filter {
	return func(value string) (string, []any, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return "", nil, invalidFilter(column, value)
		}
		return column + " = ?", []any{b}, nil
	}
}

// OneOf matches a column restricted to a fixed set of values
func OneOf(column string, allowed []string) Filter {
	return func(value string) (string, []any, error) {
		if !slices.Contains(allowed, value) {
			return "", nil, &marketerrors.FieldValueError{Entity: "filter", Field: column, Value: value, Allowed: allowed}
		}
		return column + " = ?", []any{value}, nil
	}
}

// AtLeast matches rows whose numeric column is >= value
func AtLeast(column string) Filter { return compareNumber(column, ">=") }

// AtMost matches rows whose numeric column is <= value
func AtMost(column string) Filter { return compareNumber(column, "<=") }

func compareNumber(column, op string) Filter {
	return func(value string) (string, []any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return "", nil, invalidFilter(column, value)
		}
		return fmt.Sprintf("%s %s ?", column, op), []any{f}, nil
	}
}

// Before matches rows whose timestamp column is earlier than value (RFC 3339)
func Before(column string) Filter { return compareTime(column, "<") }

// After matches rows whose timestamp column is later than value (RFC 3339)
func After(column string) Filter { return compareTime(column, ">") }

func compareTime(column, op string) Filter {
	return func(value string) (string, []any, error) {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
		if err != nil {
			return "", nil, invalidFilter(column, value)
		}
		return fmt.Sprintf("%s %s ?", column, op), []any{t.UTC()}, nil
	}
}

// Contains matches a case-insensitive substring in any of the columns
func Contains(columns ...string) Filter {
	return func(value string) (string, []any, error) {
		pattern := "%" + strings.ToLower(value) + "%"
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			parts[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	}
}

// EitherInt matches an integer value held by any of the columns
func EitherInt(columns ...string) Filter {
	return func(value string) (string, []any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return "", nil, invalidFilter(strings.Join(columns, "|"), value)
		}
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			parts[i] = col + " = ?"
			args[i] = n
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	}
}

// where builds the WHERE clause from the recognised keys of q, in key order
func where(q Query, filters map[string]Filter) (string, []any, error) {
	keys := make([]string, 0, len(q))
	for key := range q {
		if _, ok := filters[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var (
		clauses []string
		args    []any
	)
	for _, key := range keys {
		clause, a, err := filters[key](q[key])
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, a...)
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// orderBy returns the ORDER BY clause for the sort/order keys, limited to sortable columns
func orderBy(q Query, sortable []string, fallback string) string {
	column := q["sort"]
	if column == "" {
		column = q["sort_by"]
	}
	if !slices.Contains(sortable, column) {
		return " ORDER BY " + fallback
	}

	direction := "ASC"
	if strings.EqualFold(q["order"], "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, direction, direction)
}
