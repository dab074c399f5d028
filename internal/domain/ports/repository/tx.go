package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX Tx

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Use cases own their unit of work:
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//		m, err := memberships.FindByID(ctx, tx, id)
//		...
//		return err
//	})
//
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres).
// Repositories MUST accept NoTX (non-transactional path) and lock rows they
// read with FOR UPDATE when handed a real transaction.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
	// WithSavepoint runs fn inside a savepoint of tx. A failure of fn rolls
	// back only the savepoint; the enclosing transaction stays usable.
	WithSavepoint(ctx context.Context, tx Tx, fn func(ctx context.Context, tx Tx) error) error
}
