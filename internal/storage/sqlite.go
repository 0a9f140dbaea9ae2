package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/common"
	"github.com/Veraticus/the-spice-must-recur/internal/config"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLStorage is the transaction store. It runs on SQLite for local use and on
// PostgreSQL when pointed at a shared server; the SQL it issues is accepted by
// both engines.
type SQLStorage struct {
	db     *sql.DB
	driver string
	dsn    string
}

// NewStorage opens the store described by dsn: a postgres:// URL, a SQLite
// file path, or ":memory:".
func NewStorage(ctx context.Context, dsn string) (*SQLStorage, error) {
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}
	if config.IsPostgresDSN(dsn) {
		return NewPostgresStorage(ctx, dsn)
	}
	return NewSQLiteStorage(dsn)
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(DriverSQLite, dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs
	// exactly one so every query sees the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStorage{db: db, driver: DriverSQLite, dsn: dbPath}, nil
}

// NewPostgresStorage connects to PostgreSQL, retrying while the server comes up.
func NewPostgresStorage(ctx context.Context, dsn string) (*SQLStorage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	err = common.WithRetry(ctx, func() error {
		return db.PingContext(ctx)
	}, common.RetryOptions{MaxAttempts: 5, InitialDelay: 250 * time.Millisecond, MaxDelay: 5 * time.Second})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStoreConnect, err)
	}

	return &SQLStorage{db: db, driver: DriverPostgres, dsn: dsn}, nil
}

// Driver returns the database/sql driver in use.
func (s *SQLStorage) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *SQLStorage) Close() error {
	return s.db.Close()
}
