package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a database/sql driver understood by SQLRepository.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const createStorageTable = `CREATE TABLE IF NOT EXISTS storage_entries (
	doc_key    TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// SQLRepository stores documents in a storage_entries table through
// database/sql. The SQLite dialect is the closest thing to a browser's own
// storage area: one local file per origin.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLRepository opens dsn with the driver for dialect and ensures the
// table exists.
func OpenSQLRepository(ctx context.Context, dialect Dialect, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// A single connection keeps ":memory:" databases coherent.
		db.SetMaxOpenConns(1)
	}
	repo, err := NewSQLRepository(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func NewSQLRepository(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLRepository, error) {
	if _, err := db.ExecContext(ctx, createStorageTable); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLRepository{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *SQLRepository) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT value FROM storage_entries WHERE doc_key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLRepository) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO storage_entries (doc_key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (doc_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, time.Now().UnixMilli())
	return err
}

func (s *SQLRepository) Del(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM storage_entries WHERE doc_key = ?`), key)
	return err
}

func (s *SQLRepository) Close() error {
	return s.db.Close()
}
