package backup

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"auction-marketplace/utils"

	"github.com/klauspost/compress/gzip"
)

const (
	filePrefix = "backup_"
	fileSuffix = ".sql.gz"
	dateLayout = "2006-01-02"
	// timeLayout matches how the sqlite driver stores timestamps
	timeLayout = "2006-01-02 15:04:05.999999999-07:00"
)

// Manager dumps a SQLite database into dated gzip files and restores the newest one
type Manager struct {
	DBPath string
	Dir    string
	Now    func() time.Time
}

// NewManager creates a Manager for the database file at dbPath storing backups in dir
func NewManager(dbPath, dir string) *Manager {
	return &Manager{
		DBPath: dbPath,
		Dir:    dir,
		Now:    time.Now,
	}
}

// FileName returns the backup file name for the given day
func FileName(day time.Time) string {
	return filePrefix + day.Format(dateLayout) + fileSuffix
}

// Backup writes today's dump of db and returns its path. A second run on the same day replaces
// the earlier file.
func (m *Manager) Backup(ctx context.Context, db *sql.DB) (string, error) {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		utils.Error("backup: cannot create backup directory", map[string]any{"dir": m.Dir, "error": err.Error()})
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	target := filepath.Join(m.Dir, FileName(m.Now()))
	tmp, err := os.CreateTemp(m.Dir, ".backup-*.tmp")
	if err != nil {
		utils.Error("backup: cannot create temp file", map[string]any{"dir": m.Dir, "error": err.Error()})
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.writeDump(ctx, db, tmp); err != nil {
		tmp.Close()
		utils.Error("backup: dump failed", map[string]any{"path": target, "error": err.Error()})
		return "", err
	}
	if err := tmp.Close(); err != nil {
		utils.Error("backup: cannot close temp file", map[string]any{"path": target, "error": err.Error()})
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		utils.Error("backup: cannot move dump into place", map[string]any{"path": target, "error": err.Error()})
		return "", fmt.Errorf("rename backup: %w", err)
	}

	utils.Info("backup written", map[string]any{"path": target})
	return target, nil
}

func (m *Manager) writeDump(ctx context.Context, db *sql.DB, w io.Writer) error {
	zw := gzip.NewWriter(w)
	buf := bufio.NewWriter(zw)

	if err := Dump(ctx, db, buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress dump: %w", err)
	}
	return nil
}

type schemaEntry struct {
	kind string
	name string
	sql  string
}

// Dump writes the schema and rows of a SQLite database as SQL statements. It reads inside one
// transaction so the dump is a consistent snapshot.
func Dump(ctx context.Context, db *sql.DB, w io.Writer) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dump: begin: %w", err)
	}
	defer tx.Rollback()

	entries, err := readSchema(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, "-- auction-marketplace sqlite dump\n"); err != nil {
		return err
	}

	for _, e := range entries {
		if e.kind != "table" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s;\n", e.sql); err != nil {
			return err
		}
		if err := dumpRows(ctx, tx, e.name, w); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if e.kind == "table" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s;\n", e.sql); err != nil {
			return err
		}
	}
	return nil
}

func readSchema(ctx context.Context, tx *sql.Tx) ([]schemaEntry, error) {
	rows, err := tx.QueryContext(ctx, `SELECT type, name, sql FROM sqlite_master
WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%' ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("dump: read schema: %w", err)
	}
	defer rows.Close()

	var entries []schemaEntry
	for rows.Next() {
		var e schemaEntry
		if err := rows.Scan(&e.kind, &e.name, &e.sql); err != nil {
			return nil, fmt.Errorf("dump: scan schema: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func dumpRows(ctx context.Context, tx *sql.Tx, table string, w io.Writer) error {
	rows, err := tx.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return fmt.Errorf("dump: read %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("dump: columns of %s: %w", table, err)
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", quoteIdent(table), strings.Join(quoted, ", "))

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("dump: scan %s: %w", table, err)
		}
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = literal(v)
		}
		if _, err := io.WriteString(w, prefix+strings.Join(literals, ", ")+");\n"); err != nil {
			return err
		}
	}
	return rows.Err()
}

// literal renders a scanned value as a SQLite literal
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		return "X'" + hex.EncodeToString(val) + "'"
	case string:
		return quoteString(val)
	case time.Time:
		return quoteString(val.Format(timeLayout))
	default:
		return quoteString(fmt.Sprint(val))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
