// Package store remembers the last committed selection of each dropdown id
// in a small SQLite database, so a later run can start from it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/runger/dropdown/internal/option"
)

// ErrNotFound is returned when no selection is stored for a dropdown id.
var ErrNotFound = errors.New("selection not found")

// Store is a SQLite-backed selection store.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection. It is safe to call Close multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Load returns the values last saved for id, in selection order.
func (s *Store) Load(ctx context.Context, id string) ([]option.Value, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT values_json FROM selections WHERE dropdown_id = ?
	`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}

	var values []option.Value
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode selection %s: %w", id, err)
	}
	return values, nil
}

// Save replaces the stored selection for id. An empty selection is stored
// as such, distinct from having nothing stored.
func (s *Store) Save(ctx context.Context, id string, values []option.Value) error {
	if values == nil {
		values = []option.Value{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO selections (dropdown_id, values_json, updated_at_unix_ms)
		VALUES (?, ?, ?)
	`, id, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// Forget deletes the stored selection for id. Forgetting an unknown id is not an error.
func (s *Store) Forget(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM selections WHERE dropdown_id = ?`, id); err != nil {
		return fmt.Errorf("failed to forget selection: %w", err)
	}
	return nil
}

// IDs returns every dropdown id with a stored selection, most recent first.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dropdown_id FROM selections ORDER BY updated_at_unix_ms DESC, dropdown_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan selection id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// migrate runs database migrations to ensure the schema is up to date.
func (s *Store) migrate(ctx context.Context) error {
	currentVersion := 0
	row := s.db.QueryRowContext(ctx, `
		SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1
	`)
	if err := row.Scan(&currentVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isTableNotFoundError(err) {
			currentVersion = 0
		} else {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms)
			VALUES (?, ?)
		`, m.version, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// schemaVersion returns the latest applied migration.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_meta`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// isTableNotFoundError checks if the error indicates a missing table.
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS selections (
  dropdown_id TEXT PRIMARY KEY,
  values_json TEXT NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);
`
