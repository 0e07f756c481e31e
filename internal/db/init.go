// Package db opens the flashcard database, applies the schema and runs
// background maintenance.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS flashcards (
    id BIGSERIAL PRIMARY KEY,
    expression TEXT NOT NULL,
    explanation TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    deleted_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_flashcards_recency ON flashcards (created_at DESC, id DESC);
`

// AUTOINCREMENT keeps SQLite from reusing the id of a purged row.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS flashcards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    expression TEXT NOT NULL,
    explanation TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_flashcards_recency ON flashcards (created_at DESC, id DESC);
`

// Init opens a connection for the given database type ("postgres" or
// "sqlite"), verifies it and creates the schema if needed.
func Init(dbType, dsn string) (*sql.DB, error) {
	switch dbType {
	case "postgres":
		return InitPostgres(dsn)
	case "sqlite":
		return InitSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

// InitPostgres opens a PostgreSQL database and applies the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(db, postgresSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSQLite opens a SQLite database file (or ":memory:") and applies the
// schema. The pool is limited to one connection: SQLite serializes writers
// anyway, and an in-memory database exists per connection.
func InitSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := Migrate(db, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate executes each statement of schema in order.
func Migrate(db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
