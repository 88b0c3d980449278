package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect captures the few places SQLite and Postgres disagree.
type Dialect struct {
	Name        string
	Driver      string
	placeholder func(n int) string
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Driver:      "sqlite",
		placeholder: func(int) string { return "?" },
	}
	Postgres = Dialect{
		Name:        "postgres",
		Driver:      "pgx",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

const createTable = `CREATE TABLE IF NOT EXISTS device_store (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

var _ Store = (*SQLStore)(nil)

// SQLStore persists key-value pairs in a single two-column table.
type SQLStore struct {
	db          *sql.DB
	getQuery    string
	setQuery    string
	removeQuery string
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open(SQLite.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer keeps SQLite from reporting SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	return NewSQLStore(db, SQLite)
}

func NewPostgresStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open(Postgres.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewSQLStore(db, Postgres)
}

// NewSQLStore wraps an open database and ensures the table exists.
func NewSQLStore(db *sql.DB, d Dialect) (*SQLStore, error) {
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create device_store table: %w", err)
	}

	p1, p2 := d.placeholder(1), d.placeholder(2)
	upsert := "INSERT INTO device_store (name, value) VALUES (" + p1 + ", " + p2 + ") " +
		"ON CONFLICT (name) DO UPDATE SET value = excluded.value"

	return &SQLStore{
		db:          db,
		getQuery:    "SELECT value FROM device_store WHERE name = " + p1,
		setQuery:    upsert,
		removeQuery: "DELETE FROM device_store WHERE name = " + p1,
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.setQuery, key, value)
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.removeQuery, key)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
