// Package sqlpool implements connection pools for SQL databases. Every
// reservation opens a transaction that the call engine commits or rolls
// back when the call tree ends.
//
// Supported drivers are "sqlite3" (github.com/mattn/go-sqlite3), "pgx"
// (github.com/jackc/pgx/v5/stdlib) and "sqlserver"
// (github.com/microsoft/go-mssqldb).
package sqlpool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// Register the database/sql drivers selectable from configuration.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Pool          = (*Pool)(nil)
	_ ports.Connection    = (*Conn)(nil)
	_ ports.HealthChecker = (*Pool)(nil)
)

// ErrForeignConnection is returned when a connection is released to a pool
// that did not create it.
var ErrForeignConnection = errors.New("connection does not belong to pool")

// Pool is a named database handle.
type Pool struct {
	name   string
	driver string
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a pool from cfg. The database is not contacted until the
// first reservation or health check.
func Open(name string, cfg *config.PoolConfig, logger *slog.Logger) (*Pool, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s pool %q: %w", cfg.Driver, name, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return New(name, cfg.Driver, db, logger), nil
}

// New wraps an existing database handle.
func New(name, driver string, db *sql.DB, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{name: name, driver: driver, db: db, logger: logger}
}

// Name implements ports.Pool and ports.HealthChecker.
func (p *Pool) Name() string { return p.name }

// Driver returns the database/sql driver name.
func (p *Pool) Driver() string { return p.driver }

// Reserve begins a transaction. The transaction outlives cancellation of
// ctx; it ends only through Commit or Rollback.
func (p *Pool) Reserve(ctx context.Context) (ports.Connection, error) {
	tx, err := p.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction on %q: %w", p.name, err)
	}
	p.logger.DebugContext(ctx, "connection reserved",
		slog.String("operation", "sqlpool.Reserve"),
		slog.String("pool", p.name),
	)
	return &Conn{pool: p, tx: tx}, nil
}

// Release ends an unfinished transaction with a rollback.
func (p *Pool) Release(ctx context.Context, conn ports.Connection) error {
	c, ok := conn.(*Conn)
	if !ok || c.pool != p {
		return fmt.Errorf("releasing to %q: %w", p.name, ErrForeignConnection)
	}
	if c.done {
		return nil
	}
	p.logger.WarnContext(ctx, "releasing open transaction",
		slog.String("operation", "sqlpool.Release"),
		slog.String("pool", p.name),
	)
	return c.Rollback(ctx)
}

// HealthCheck pings the database.
func (p *Pool) HealthCheck(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (p *Pool) Close() error {
	return p.db.Close()
}

// Conn is a reserved database transaction. It is used by a single call
// tree and is not safe for concurrent use.
type Conn struct {
	pool *Pool
	tx   *sql.Tx
	done bool
}

// Pool implements ports.Connection.
func (c *Conn) Pool() string { return c.pool.name }

// Driver returns the driver name of the owning pool.
func (c *Conn) Driver() string { return c.pool.driver }

// Commit implements ports.Connection.
func (c *Conn) Commit(context.Context) error {
	if c.done {
		return sql.ErrTxDone
	}
	c.done = true
	return c.tx.Commit()
}

// Rollback implements ports.Connection.
func (c *Conn) Rollback(context.Context) error {
	if c.done {
		return sql.ErrTxDone
	}
	c.done = true
	return c.tx.Rollback()
}

// Exec runs a statement and returns the number of affected rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	// Drivers without row counts report zero.
	n, _ := res.RowsAffected()
	return n, nil
}

// Query runs a query and returns every row as a column name to value map.
func (c *Conn) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := c.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}
