// Package storage writes projected worksheet records to PostgreSQL.
//
// Every worksheet becomes one table whose columns are all text. Tables
// are created if missing and never altered.
package storage

import (
	"context"
	"fmt"

	"github.com/cmcgovern/handy-scripts/internal/config"
	"github.com/cmcgovern/handy-scripts/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for statement execution.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}

// Store implements core.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store using pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens and verifies a connection pool.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InTx runs fn in a transaction that commits when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx core.SheetTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewSheetTx(tx))
	})
}

// DropTable drops a worksheet table if it exists.
func (s *Store) DropTable(ctx context.Context, table string) error {
	if _, err := s.pool.Exec(ctx, DropTableSQL(table)); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}
	return nil
}

// SheetTx executes worksheet DDL and inserts inside one transaction.
// Each insert runs under its own savepoint so a rejected row leaves the
// transaction usable.
type SheetTx struct {
	db DBTX
	n  int
}

// NewSheetTx wraps an open transaction.
func NewSheetTx(db DBTX) *SheetTx {
	return &SheetTx{db: db}
}

// CreateTable declares table with one text column per field.
func (t *SheetTx) CreateTable(ctx context.Context, table string, fields []string) error {
	_, err := t.db.Exec(ctx, CreateTableSQL(table, fields))
	return err
}

// InsertRecord inserts one record under a savepoint.
func (t *SheetTx) InsertRecord(ctx context.Context, table string, rec core.Record) error {
	t.n++
	sp := fmt.Sprintf("sp_%d", t.n)

	if _, err := t.db.Exec(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if _, err := t.db.Exec(ctx, InsertSQL(table, rec.Names()), rec.Values()...); err != nil {
		if _, rbErr := t.db.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
		}
		return err
	}

	_, err := t.db.Exec(ctx, "RELEASE SAVEPOINT "+sp)
	return err
}

var (
	_ core.Store   = (*Store)(nil)
	_ core.SheetTx = (*SheetTx)(nil)
)
