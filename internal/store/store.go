package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migrations upgrade a database whose user_version is i to version i+1.
// schema.sql always describes version 0, so fresh and old files take the
// same path.
var migrations = []struct {
	name string
	sql  string
}{
	{"cell history index", `CREATE INDEX IF NOT EXISTS idx_cells_run_account ON cells(run_id, account_id, year)`},
	{"statement filter index", `CREATE INDEX IF NOT EXISTS idx_cells_run_section_year ON cells(run_id, section, year)`},
}

var currentSchemaVersion = len(migrations)

// connPragmas are applied to the single pooled connection on Open. Runs are
// written once and read by show, often while another compute --save runs.
var connPragmas = []string{
	"journal_mode = WAL",
	"synchronous = NORMAL",
	"busy_timeout = 5000",
	"foreign_keys = ON",
}

// Store is a SQLite file of saved projection runs.
type Store struct {
	db *sql.DB
}

// Open opens the run database at path, creating it when missing, and
// brings its schema to the current version. Reopening a current file is a
// no-op.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run database %s: %w", path, err)
	}

	// Pragmas are per connection; a single connection keeps them in force
	// and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range connPragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run tables: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for ad hoc SQL against the run tables.
func (s *Store) DB() *sql.DB {
	return s.db
}

// migrate applies each pending migration in its own transaction together
// with its user_version bump.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("run database schema v%d is newer than this build (v%d)", version, currentSchemaVersion)
	}

	for v := version; v < currentSchemaVersion; v++ {
		m := migrations[v]
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d (%s): %w", v+1, m.name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: set version: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	return nil
}

func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, want %q", name, value, expected)
	}
	return nil
}
