package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager implements repository.TransactionManager for Postgres (pgx).
// It begins a transaction, invokes the callback, and commits/rolls back.
// The tx handle is passed to the callback as pgx.Tx.
type TxManager struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxManager builds a manager whose transactions carry a statement timeout
// so a hung connection cannot pin a user lock forever.
func NewTxManager(pool *pgxpool.Pool, timeout time.Duration) *TxManager {
	return &TxManager{pool: pool, timeout: timeout}
}

// WithTx opens a DB transaction and passes the tx handle to fn.
// If fn returns an error, the transaction is rolled back and the error is
// returned unchanged; otherwise it is committed.
func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if m.timeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", m.timeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return domain.Storage("set statement timeout", err)
		}
	}

	if err := fn(ctx, tx); err != nil {
		return err // rollback in defer
	}
	if err := tx.Commit(ctx); err != nil {
		return translate("commit transaction", err)
	}
	return nil
}

// WithSavepoint runs fn inside a pgx pseudo-nested transaction (SAVEPOINT).
func (m *TxManager) WithSavepoint(ctx context.Context, tx repository.Tx, fn func(ctx context.Context, tx repository.Tx) error) error {
	parent, ok := tx.(pgx.Tx)
	if !ok {
		return domain.ErrInvalidExecContext
	}
	sp, err := parent.Begin(ctx)
	if err != nil {
		return domain.Storage("begin savepoint", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	if err := fn(ctx, sp); err != nil {
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return domain.Storage("release savepoint", err)
	}
	return nil
}

type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func getExecutor(pool *pgxpool.Pool, tx repository.Tx) (executor, error) {
	switch v := tx.(type) {
	case pgx.Tx:
		return v, nil
	case *pgxpool.Conn:
		return v, nil
	case *pgxpool.Pool:
		return v, nil
	case nil:
		// Explicitly use the pool if nil is passed
		if pool != nil {
			return pool, nil
		}
		return nil, domain.ErrInvalidExecContext
	default:
		return nil, domain.ErrInvalidExecContext
	}
}

func execSQL(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...any) (pgconn.CommandTag, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	return ex.Exec(ctx, sql, args...)
}

func pickRow(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...any) (pgx.Row, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	return ex.QueryRow(ctx, sql, args...), nil
}

func queryRows(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...any) (pgx.Rows, error) {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return nil, err
	}
	return ex.Query(ctx, sql, args...)
}

// lockRows appends FOR UPDATE when running inside a transaction.
func lockRows(tx repository.Tx, sql string) string {
	if _, ok := tx.(pgx.Tx); ok {
		return sql + " FOR UPDATE"
	}
	return sql
}

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) || errors.Is(err, domain.ErrInvalidExecContext) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.Conflict(conflictReasonFor(pgErr.ConstraintName), "%s: %s", op, pgErr.ConstraintName)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.Storage(op, err)
		}
	}
	return domain.Storage(op, err)
}

func conflictReasonFor(constraint string) domain.Reason {
	switch constraint {
	case "memberships_one_open_per_user":
		return domain.ReasonStaleState
	case "cancellation_requests_one_pending":
		return domain.ReasonCancellationInProgress
	}
	return domain.ReasonNone
}

// requireAffected turns a zero-row conditional update into a stale-state conflict.
func requireAffected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return domain.Conflict(domain.ReasonStaleState, "%s changed concurrently", what)
	}
	return nil
}
