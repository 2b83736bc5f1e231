package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trees (
	key        TEXT PRIMARY KEY,
	tree       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store implements ports.TreeStore on a SQLite database.
// Trees are kept as zstd-compressed protobuf blobs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)
	if path == ":memory:" {
		db, err = sql.Open("sqlite", ":memory:")
		if err == nil {
			// Every connection would otherwise get its own empty database.
			db.SetMaxOpenConns(1)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL mode for concurrent readers
		db, err = sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db)
}

// New wraps an open database, creating the table if needed.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trees table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or replaces the tree under key.
func (s *Store) Save(ctx context.Context, key string, tree *domain.Node) error {
	blob := codec.Compress(codec.MarshalProto(tree))
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trees (key, tree, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET tree = excluded.tree, updated_at = excluded.updated_at`,
		key, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save tree %s: %w", key, err)
	}
	return nil
}

// Load retrieves the tree stored under key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Node, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT tree FROM trees WHERE key = ?`, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTreeNotFound
		}
		return nil, fmt.Errorf("failed to load tree %s: %w", key, err)
	}

	raw, err := codec.Decompress(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress tree %s: %w", key, err)
	}
	return codec.UnmarshalProto(raw)
}

// Delete removes the tree stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trees WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete tree %s: %w", key, err)
	}
	return nil
}

// List returns all keys, most recently written first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM trees ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
