package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for Postgres (pgx) or SQLite.
type DB struct {
	Client  *sql.DB
	dialect string
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(ctx context.Context, connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{Client: db, dialect: "postgres"}, nil
}

// NewSQLite opens a local SQLite database. ":memory:" is accepted.
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{Client: db, dialect: "sqlite"}, nil
}

func (d *DB) migrate(ctx context.Context) error {
	payloadType := "BYTEA"
	if d.dialect == "sqlite" {
		payloadType = "BLOB"
	}
	_, err := d.Client.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_slots (
			name       TEXT PRIMARY KEY,
			payload    `+payloadType+` NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// Slot migrates the schema and returns the named slot.
func (d *DB) Slot(ctx context.Context, name string) (*SQLSlot, error) {
	if err := d.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLSlot{db: d, name: name}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// SQLSlot keeps the payload in one kv_slots row.
type SQLSlot struct {
	db   *DB
	name string
}

func (s *SQLSlot) Get(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.Client.QueryRowContext(ctx, `SELECT payload FROM kv_slots WHERE name = $1`, s.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return payload, err
}

func (s *SQLSlot) Put(ctx context.Context, payload []byte) error {
	_, err := s.db.Client.ExecContext(ctx, `
		INSERT INTO kv_slots (name, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = CURRENT_TIMESTAMP
	`, s.name, payload)
	return err
}

func (s *SQLSlot) Healthy(ctx context.Context) bool {
	return s.db.Client.PingContext(ctx) == nil
}

func (s *SQLSlot) Close() error { return s.db.Close() }
