package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const connKey contextKey = "db_conn"

// Querier is the subset of pgx operations repositories run. Both a pool and
// a transaction satisfy it, so a repository works the same inside and
// outside an injected transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WithConn returns a context carrying q; repositories prefer it over their
// own pool.
func WithConn(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, connKey, q)
}

// ConnFromContext retrieves the request-scoped querier, or nil when the
// caller did not inject one.
func ConnFromContext(ctx context.Context) Querier {
	q, _ := ctx.Value(connKey).(Querier)
	return q
}

// InTx runs fn inside a single transaction. The transaction is injected into
// the context passed to fn, so every repository call within fn joins it.
// A non-nil error from fn rolls the transaction back.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
