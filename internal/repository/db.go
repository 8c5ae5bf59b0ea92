package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/utils"

	"github.com/go-sql-driver/mysql"
)

const pingTimeout = 5 * time.Second

// Restorer recreates a missing SQLite database file from a backup
type Restorer interface {
	RestoreLatest(ctx context.Context) (string, error)
}

var (
	defaultMu      sync.RWMutex
	defaultDB      *sql.DB
	defaultDialect = SQLite
)

// SetDefault installs the process-wide connection used by stores built without a handle
func SetDefault(db *sql.DB, d Dialect) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultDB = db
	defaultDialect = d
}

// Default returns the process-wide connection and its dialect
func Default() (*sql.DB, Dialect) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDB, defaultDialect
}

// Open connects to the configured database. For SQLite a missing database file is first
// restored from the newest backup when a restorer is given.
func Open(ctx context.Context, cfg config.DBConfig, restorer Restorer) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	dsn := cfg.DSN
	switch dialect.Name {
	case SQLite.Name:
		if err := prepareSQLiteFile(ctx, cfg.Path, restorer); err != nil {
			return nil, Dialect{}, err
		}
		dsn = SQLiteDSN(cfg.Path)
	case MySQL.Name:
		if dsn, err = mysqlDSN(cfg.DSN); err != nil {
			return nil, Dialect{}, err
		}
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, dialect, nil
}

// SQLiteDSN returns the connection string for a SQLite file with foreign keys enforced
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func prepareSQLiteFile(ctx context.Context, path string, restorer Restorer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) || restorer == nil {
		return nil
	}

	restored, err := restorer.RestoreLatest(ctx)
	switch {
	case err == nil:
		utils.Info("database restored from backup", map[string]any{"path": path, "backup": restored})
	case errors.Is(err, marketerrors.ErrNoBackup):
		utils.Info("no backup found, starting with an empty database", map[string]any{"path": path})
	default:
		utils.Error("database restore failed", map[string]any{"path": path, "error": err.Error()})
	}
	return nil
}

// mysqlDSN forces the options the mappers rely on: time.Time scanning and matched-row counts
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func configurePool(db *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
}
