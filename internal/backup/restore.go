package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/utils"

	"github.com/klauspost/compress/gzip"

	_ "github.com/glebarez/go-sqlite"
)

// Latest returns the path of the most recently modified backup file
func (m *Manager) Latest() (string, error) {
	entries, err := os.ReadDir(m.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", marketerrors.ErrNoBackup
	}
	if err != nil {
		return "", fmt.Errorf("read backup dir: %w", err)
	}

	var (
		latest   string
		latestAt time.Time
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		// equal mtimes fall back to the name, which sorts by date
		if latest == "" || info.ModTime().After(latestAt) || (info.ModTime().Equal(latestAt) && name > filepath.Base(latest)) {
			latest = filepath.Join(m.Dir, name)
			latestAt = info.ModTime()
		}
	}

	if latest == "" {
		return "", marketerrors.ErrNoBackup
	}
	return latest, nil
}

// RestoreLatest rebuilds a missing database file from the newest backup, then deletes that
// backup. It refuses to touch an existing database file.
func (m *Manager) RestoreLatest(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.DBPath); err == nil {
		return "", marketerrors.ErrDatabasePresent
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat database: %w", err)
	}

	latest, err := m.Latest()
	if err != nil {
		return "", err
	}

	if err := m.restore(ctx, latest); err != nil {
		utils.Error("restore failed", map[string]any{"backup": latest, "error": err.Error()})
		for _, p := range []string{m.DBPath, m.DBPath + "-journal", m.DBPath + "-wal", m.DBPath + "-shm"} {
			_ = os.Remove(p)
		}
		return "", err
	}

	if err := os.Remove(latest); err != nil {
		utils.Warn("restored database but could not remove backup", map[string]any{"backup": latest, "error": err.Error()})
	}
	utils.Info("database restored from backup", map[string]any{"backup": latest, "database": m.DBPath})
	return latest, nil
}

func (m *Manager) restore(ctx context.Context, path string) error {
	script, err := readScript(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(m.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", m.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	for i, stmt := range splitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("restore statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}

func readScript(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("decompress backup: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("read backup: %w", err)
	}
	return string(data), nil
}

// splitStatements cuts a SQL script on semicolons outside quotes and drops -- comments
func splitStatements(script string) []string {
	var (
		out     []string
		current strings.Builder
		quote   rune
	)

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			current.WriteRune(r)
			if r == quote {
				// a doubled quote is an escaped quote
				if i+1 < len(runes) && runes[i+1] == quote {
					current.WriteRune(runes[i+1])
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')
		case r == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				out = append(out, stmt)
			}
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}
