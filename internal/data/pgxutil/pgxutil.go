// Package pgxutil bridges database/sql handles to native pgx connections so
// repositories can use pgx row collection on a stdlib-managed pool.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// TxConfig groups parameters for WithPgxTx.
type TxConfig struct {
	Opts *sql.TxOptions
	Fn   func(pgx.Tx) error
}

// ToPgxTxOptions converts sql.TxOptions to pgx.TxOptions.
func ToPgxTxOptions(opts *sql.TxOptions) pgx.TxOptions {
	var pgxOpts pgx.TxOptions
	if opts == nil {
		return pgxOpts
	}
	switch opts.Isolation {
	case sql.LevelSerializable, sql.LevelLinearizable:
		pgxOpts.IsoLevel = pgx.Serializable
	case sql.LevelRepeatableRead, sql.LevelSnapshot:
		pgxOpts.IsoLevel = pgx.RepeatableRead
	case sql.LevelReadCommitted, sql.LevelWriteCommitted:
		pgxOpts.IsoLevel = pgx.ReadCommitted
	case sql.LevelReadUncommitted:
		pgxOpts.IsoLevel = pgx.ReadUncommitted
	default:
		// server default
	}
	if opts.ReadOnly {
		pgxOpts.AccessMode = pgx.ReadOnly
	} else {
		pgxOpts.AccessMode = pgx.ReadWrite
	}
	return pgxOpts
}

// WithPgxConn acquires a *pgx.Conn via the stdlib bridge and executes fn with it.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		// connection close failure is best-effort and ignored
		_ = conn.Close()
	}()

	return conn.Raw(func(dc any) error {
		std, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		return fn(std.Conn())
	})
}

// WithPgxTx runs fn within a pgx transaction using the stdlib bridge.
func WithPgxTx(ctx context.Context, db *sql.DB, cfg TxConfig) error {
	return WithPgxConn(ctx, db, func(pgxConn *pgx.Conn) error {
		tx, err := pgxConn.BeginTx(ctx, ToPgxTxOptions(cfg.Opts))
		if err != nil {
			return fmt.Errorf("begin pgx tx: %w", err)
		}
		defer func() {
			// rollback after commit returns ErrTxClosed and is safe to ignore
			_ = tx.Rollback(ctx)
		}()
		if fnErr := cfg.Fn(tx); fnErr != nil {
			return fnErr
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			return fmt.Errorf("commit pgx tx: %w", commitErr)
		}
		return nil
	})
}

// Querier is satisfied by *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CollectAll runs query on q and maps every row onto T by column name.
func CollectAll[T any](ctx context.Context, q Querier, query string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}

// CollectOne runs query on q and maps exactly one row onto T. It returns
// pgx.ErrNoRows when the query matches nothing.
func CollectOne[T any](ctx context.Context, q Querier, query string, args ...any) (*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
}

// QueryAll is CollectAll on a pooled connection.
func QueryAll[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]*T, error) {
	var out []*T
	err := WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		var e error
		out, e = CollectAll[T](ctx, conn, query, args...)
		return e
	})
	return out, err
}

// QueryOne is CollectOne on a pooled connection.
func QueryOne[T any](ctx context.Context, db *sql.DB, query string, args ...any) (*T, error) {
	var out *T
	err := WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		var e error
		out, e = CollectOne[T](ctx, conn, query, args...)
		return e
	})
	return out, err
}
