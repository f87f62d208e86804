package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects the SQL flavour for schema and maintenance statements.
type Dialect string

const (
	DialectSqlite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// InitSchema creates the place cache table for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectSqlite:
		statements = []string{`
		CREATE TABLE IF NOT EXISTS place_cache (
			query_key  TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`, `
		CREATE INDEX IF NOT EXISTS idx_place_cache_created_at
		ON place_cache(created_at);`,
		}
	case DialectPostgres:
		statements = []string{`
		CREATE TABLE IF NOT EXISTS place_cache (
			query_key  TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`, `
		CREATE INDEX IF NOT EXISTS idx_place_cache_created_at
		ON place_cache(created_at);`,
		}
	default:
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

// Purge deletes entries older than ttl, or every entry when ttl is zero.
// It returns the number of rows removed.
func Purge(ctx context.Context, db *sql.DB, dialect Dialect, ttl time.Duration) (int64, error) {
	if db == nil {
		return 0, errors.New("purge place cache: DB is nil")
	}

	var (
		res sql.Result
		err error
	)
	switch {
	case ttl <= 0:
		res, err = db.ExecContext(ctx, `DELETE FROM place_cache;`)
	case dialect == DialectSqlite:
		res, err = db.ExecContext(ctx, `DELETE FROM place_cache WHERE created_at < ?;`, time.Now().Add(-ttl).Unix())
	case dialect == DialectPostgres:
		res, err = db.ExecContext(ctx, `DELETE FROM place_cache WHERE created_at < $1;`, time.Now().Add(-ttl))
	default:
		return 0, fmt.Errorf("purge place cache: unknown dialect %q", dialect)
	}
	if err != nil {
		return 0, fmt.Errorf("purge place cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge place cache: rows affected: %w", err)
	}
	return n, nil
}
