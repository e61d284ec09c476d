package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists collections as JSON documents in a MySQL table, one
// row per collection. Same document schema as the SQLite backend.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects to MySQL with the given DSN and ensures the
// collections table exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS collections (
		name VARCHAR(64) PRIMARY KEY,
		document JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("[MySQLStore] Initialized")
	return &MySQLStore{db: db}, nil
}

// Load decodes the collection document into v. A missing row is not an
// error; v is left untouched.
func (s *MySQLStore) Load(ctx context.Context, collection string, v any) error {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM collections WHERE name = ?`, collection,
	).Scan(&document)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("failed to load collection %q: %w", collection, err)
	}

	if err := json.Unmarshal([]byte(document), v); err != nil {
		return fmt.Errorf("failed to decode collection %q: %w", collection, err)
	}
	return nil
}

// Save overwrites the collection document with v.
func (s *MySQLStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}

	query := `
		INSERT INTO collections (name, document)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE document = VALUES(document)`

	if _, err := s.db.ExecContext(ctx, query, collection, string(raw)); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", collection, err)
	}
	return nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*MySQLStore)(nil)
