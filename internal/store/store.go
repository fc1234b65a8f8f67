package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/querysql"
)

// Store runs Criteria against one database.
type Store struct {
	db       *sql.DB
	adapter  dialect.Adapter
	compiler *querysql.Compiler
}

// Open connects to dsn with the adapter's driver.
//
// SQLite databases are limited to one connection, so ":memory:" databases
// keep their contents for the life of the Store.
func Open(adapter dialect.Adapter, dsn string) (*Store, error) {
	db, err := sql.Open(adapter.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if adapter.Name() == "sqlite" {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return New(db, adapter), nil
}

// New wraps an existing database handle.
func New(db *sql.DB, adapter dialect.Adapter) *Store {
	return &Store{
		db:       db,
		adapter:  adapter,
		compiler: querysql.NewCompiler(adapter),
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Adapter() dialect.Adapter {
	return s.adapter
}

// Compiler returns the compiler used for every statement.
func (s *Store) Compiler() *querysql.Compiler {
	return s.compiler
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// prepare rewrites placeholders for the driver and logs the statement.
func (s *Store) prepare(ctx context.Context, op, query string, params []bind.Param) (string, []any) {
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		fp, err := bind.Fingerprint(query, params)
		if err != nil {
			fp = "unavailable"
		}
		slog.Debug("executing statement",
			"op", op,
			"dialect", s.adapter.Name(),
			"fingerprint", fp,
			"sql", query,
			"params", marshalParams(params))
	}
	return s.adapter.BindPlaceholders(query), bind.Values(params)
}
