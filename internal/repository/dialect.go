package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBTX is the subset of *sql.DB and *sql.Tx the mappers need
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect captures the differences between the supported SQL engines
type Dialect struct {
	Name       string
	DriverName string
	// numbered rewrites ? placeholders as $1, $2, ...
	numbered bool
	// returning fetches generated ids with RETURNING instead of LastInsertId
	returning bool
	types     map[string]string
}

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		types: map[string]string{
			"{{pk}}": "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{ts}}": "DATETIME",
		},
	}
	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		types: map[string]string{
			"{{pk}}": "BIGINT AUTO_INCREMENT PRIMARY KEY",
			"{{ts}}": "DATETIME(6)",
		},
	}
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "pgx",
		numbered:   true,
		returning:  true,
		types: map[string]string{
			"{{pk}}": "BIGSERIAL PRIMARY KEY",
			"{{ts}}": "TIMESTAMPTZ",
		},
	}
)

// DialectFor returns the dialect registered under name
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	case MySQL.Name:
		return MySQL, nil
	case Postgres.Name, "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Rebind rewrites ? placeholders into the dialect's bind syntax
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DDL expands the type tokens of a schema statement
func (d Dialect) DDL(stmt string) string {
	for token, typ := range d.types {
		stmt = strings.ReplaceAll(stmt, token, typ)
	}
	return stmt
}

// insert runs an INSERT and returns the generated id
func (d Dialect) insert(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	if d.returning {
		var id int64
		if err := db.QueryRowContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := db.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
