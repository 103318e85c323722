package store

import (
	"context"
	"errors"
	"fmt"
)

// DefaultSlotName is the key under which the record collection lives.
const DefaultSlotName = "attendance_pro_records"

// ErrNotFound is returned by Get when nothing has been written yet.
var ErrNotFound = errors.New("slot empty")

// Slot is one named key holding one opaque payload. Put overwrites.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, payload []byte) error
	Healthy(ctx context.Context) bool
	Close() error
}

// Options selects and configures a slot backend.
type Options struct {
	Backend     string
	Name        string
	DataDir     string
	RedisAddr   string
	DatabaseURL string
	SQLitePath  string
}

// Open returns the slot for the configured backend.
func Open(ctx context.Context, opts Options) (Slot, error) {
	name := opts.Name
	if name == "" {
		name = DefaultSlotName
	}
	switch opts.Backend {
	case "", "file":
		fs, err := NewFileSlot(opts.DataDir, name)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "redis":
		return NewRedis(opts.RedisAddr).Slot(name), nil
	case "postgres":
		db, err := NewDB(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return dbSlot(ctx, db, name)
	case "sqlite":
		db, err := NewSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return dbSlot(ctx, db, name)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

func dbSlot(ctx context.Context, db *DB, name string) (Slot, error) {
	s, err := db.Slot(ctx, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
