package repository

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
)

// Table describes how an entity is stored
type Table[T any] struct {
	Name   string
	Schema models.Schema
	// Columns is id, the schema fields in order, then created_at and updated_at
	Columns []string
	// Fields returns pointers to the struct fields backing Columns, in the same order
	Fields   func(*T) []any
	Filters  map[string]Filter
	Sortable []string
	OrderBy  string
}

func newTable[T any](name string, schema models.Schema, fields func(*T) []any) *Table[T] {
	columns := append([]string{"id"}, schema.Names()...)
	columns = append(columns, "created_at", "updated_at")
	return &Table[T]{
		Name:    name,
		Schema:  schema,
		Columns: columns,
		Fields:  fields,
		Filters: map[string]Filter{},
		OrderBy: "id ASC",
	}
}

func (t *Table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.Columns, ", ") + " FROM " + t.Name
}

// Mapper reads and writes one entity table through hand-written, parameterised SQL
type Mapper[T any] struct {
	db      DBTX
	dialect Dialect
	table   *Table[T]
	now     func() time.Time
}

// NewMapper binds a table to a database handle
func NewMapper[T any](db DBTX, d Dialect, table *Table[T]) *Mapper[T] {
	return &Mapper[T]{
		db:      db,
		dialect: d,
		table:   table,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithTx returns a copy of the mapper that runs its statements on tx
func (m *Mapper[T]) WithTx(tx DBTX) *Mapper[T] {
	cp := *m
	cp.db = tx
	return &cp
}

// Table returns the table description
func (m *Mapper[T]) Table() *Table[T] { return m.table }

// GetByID returns the row with the given id or ErrNotFound
func (m *Mapper[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := m.table.selectSQL() + " WHERE id = ?"
	row := m.db.QueryRowContext(ctx, m.dialect.Rebind(query), id)

	var out T
	if err := row.Scan(m.table.Fields(&out)...); err != nil {
		return nil, classify(fmt.Sprintf("get %s %d", m.table.Schema.Entity, id), err)
	}
	return &out, nil
}

// GetAll returns the rows matching the filters of q, sorted and paginated
func (m *Mapper[T]) GetAll(ctx context.Context, q Query) ([]T, error) {
	clause, args, err := where(q, m.table.Filters)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.table.Name, err)
	}

	limit, offset := q.Page()
	query := m.table.selectSQL() + clause + orderBy(q, m.table.Sortable, m.table.OrderBy) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return m.query(ctx, "list "+m.table.Name, query, args...)
}

// Count returns the number of rows matching the filters of q
func (m *Mapper[T]) Count(ctx context.Context, q Query) (int64, error) {
	clause, args, err := where(q, m.table.Filters)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.table.Name, err)
	}

	var n int64
	query := "SELECT COUNT(*) FROM " + m.table.Name + clause
	if err := m.db.QueryRowContext(ctx, m.dialect.Rebind(query), args...).Scan(&n); err != nil {
		return 0, classify("count "+m.table.Name, err)
	}
	return n, nil
}

// FindBy returns every row whose column equals value, in table order
func (m *Mapper[T]) FindBy(ctx context.Context, column string, value any) ([]T, error) {
	if !slices.Contains(m.table.Columns, column) {
		return nil, fmt.Errorf("find %s by %s: %w", m.table.Name, column, marketerrors.ErrInvalidInput)
	}
	query := m.table.selectSQL() + " WHERE " + column + " = ? ORDER BY " + m.table.OrderBy
	return m.query(ctx, "find "+m.table.Name, query, value)
}

// FindOne returns the first row whose column equals value or ErrNotFound
func (m *Mapper[T]) FindOne(ctx context.Context, column string, value any) (*T, error) {
	rows, err := m.FindBy(ctx, column, value)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("find %s by %s: %w", m.table.Schema.Entity, column, marketerrors.ErrNotFound)
	}
	return &rows[0], nil
}

// Create inserts the entity, assigns its id and returns it. Zero timestamps are stamped now.
func (m *Mapper[T]) Create(ctx context.Context, entity *T) (int64, error) {
	fields := m.table.Fields(entity)
	now := m.now()
	for _, ptr := range fields[len(fields)-2:] {
		if ts, ok := ptr.(*time.Time); ok && ts.IsZero() {
			*ts = now
		}
	}

	columns := m.table.Columns[1:]
	values := make([]any, len(columns))
	for i, ptr := range fields[1:] {
		values[i] = deref(ptr)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.table.Name, strings.Join(columns, ", "), placeholders(len(columns)))

	id, err := m.dialect.insert(ctx, m.db, query, values...)
	if err != nil {
		return 0, classify("create "+m.table.Schema.Entity, err)
	}

	if idPtr, ok := fields[0].(*int64); ok {
		*idPtr = id
	}
	return id, nil
}

// Update applies a partial update and returns the number of rows affected. Keys are validated
// against the schema; id and created_at are never written and updated_at is always stamped.
func (m *Mapper[T]) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	values, err := m.table.Schema.Coerce(fields, true)
	if err != nil {
		return 0, err
	}

	var (
		sets []string
		args []any
	)
	for _, name := range m.table.Schema.Names() {
		v, ok := values[name]
		if !ok {
			continue
		}
		sets = append(sets, name+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, m.now(), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", m.table.Name, strings.Join(sets, ", "))
	res, err := m.db.ExecContext(ctx, m.dialect.Rebind(query), args...)
	if err != nil {
		return 0, classify(fmt.Sprintf("update %s %d", m.table.Schema.Entity, id), err)
	}
	return res.RowsAffected()
}

// Delete removes the row with the given id and returns the number of rows affected
func (m *Mapper[T]) Delete(ctx context.Context, id int64) (int64, error) {
	query := "DELETE FROM " + m.table.Name + " WHERE id = ?"
	res, err := m.db.ExecContext(ctx, m.dialect.Rebind(query), id)
	if err != nil {
		return 0, classify(fmt.Sprintf("delete %s %d", m.table.Schema.Entity, id), err)
	}
	return res.RowsAffected()
}

func (m *Mapper[T]) query(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := m.db.QueryContext(ctx, m.dialect.Rebind(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var item T
		if err := rows.Scan(m.table.Fields(&item)...); err != nil {
			return nil, classify(op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// deref turns a field pointer into a driver value; nil pointers become NULL
func deref(ptr any) any {
	v := reflect.ValueOf(ptr)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
