// Package db provides connection helpers for the relational source and the
// Scylla destination.
package db

import (
	"context"
	"fmt"

	"scylla-migration/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewSourcePool creates a connection pool to the relational source and checks
// that it is reachable before any work starts.
func NewSourcePool(ctx context.Context, c config.DbCfg) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(PostgresDSN(c))
	if err != nil {
		return nil, fmt.Errorf("parse source dsn: %w", err)
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = c.MaxConns
	}
	// Every lookup runs the same handful of statements; cache them per connection.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	cfg.ConnConfig.StatementCacheCapacity = 64
	// The copy phase only reads.
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET default_transaction_read_only = on")
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect source: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping source: %w", err)
	}
	return pool, nil
}

// NewCleanupPool creates a small read-write pool used only by the teardown
// step after the copy phase succeeded.
func NewCleanupPool(ctx context.Context, c config.DbCfg) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(PostgresDSN(c))
	if err != nil {
		return nil, fmt.Errorf("parse cleanup dsn: %w", err)
	}
	cfg.MaxConns = 1
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect cleanup: %w", err)
	}
	return pool, nil
}
