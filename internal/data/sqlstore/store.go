// Package sqlstore implements data.Store over database/sql. Postgres (lib/pq)
// is the production backend; SQLite (modernc) serves local development and
// tests with the same queries.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

// PoolConfig tunes the connection pool of a Postgres store.
type PoolConfig struct {
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type dialect struct {
	name     string
	numbered bool // $1, $2... instead of ?
	schema   []string
	isUnique func(error) bool
}

var postgres = dialect{
	name:     "postgres",
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin'))
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			owner TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tasks_owner_idx ON tasks (owner)`,
	},
	isUnique: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == "23505"
	},
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin'))
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			owner TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tasks_owner_idx ON tasks (owner)`,
	},
	isUnique: func(err error) bool {
		var sqliteErr *sqlite.Error
		if !errors.As(err, &sqliteErr) {
			return false
		}
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	},
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store is a SQL-backed data.Store.
type Store struct {
	db *sql.DB
	d  dialect
}

var _ data.Store = (*Store)(nil)

// OpenPostgres connects to Postgres and ensures the schema exists. dbName is
// used only when dsn names no database itself.
func OpenPostgres(dsn, dbName string, pool PoolConfig) (*Store, error) {
	connStr, err := postgresDSN(dsn, dbName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
	return open(db, postgres)
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
func OpenSQLite(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	return open(db, sqliteDialect)
}

func open(db *sql.DB, d dialect) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), data.QueryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.name, err)
	}
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s schema: %w", d.name, err)
		}
	}
	return &Store{db: db, d: d}, nil
}

func postgresDSN(dsn, dbName string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		dsn = converted
	}
	if dbName != "" && !hasDBName(dsn) {
		quoted := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(dbName)
		dsn = strings.TrimSpace(dsn + " dbname='" + quoted + "'")
	}
	return dsn, nil
}

// hasDBName reports whether a key/value connection string sets dbname.
func hasDBName(dsn string) bool {
	for _, field := range strings.Fields(dsn) {
		if strings.HasPrefix(field, "dbname=") {
			return true
		}
	}
	return false
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store is not open")
	}
	return s.db.PingContext(ctx)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
