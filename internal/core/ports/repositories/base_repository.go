package repositories

import "context"

// TransactionManager runs units of work inside database transactions. The
// transaction travels in the context, so repositories called from fn join it.
type TransactionManager interface {
	// WithinTx runs fn in a read-write transaction, joining one already carried by ctx.
	// The transaction is committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// WithinReadSnapshot runs fn in a read-only transaction that sees a single
	// consistent snapshot of the ledger.
	WithinReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
