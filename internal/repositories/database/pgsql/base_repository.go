package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
)

// Querier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DBPool is a Querier that can open transactions.
type DBPool interface {
	Querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool DBPool
}

// q returns the transaction carried by ctx, or the pool.
func (r *BaseRepository) q(ctx context.Context) Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.Pool
}

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapError translates driver errors into application sentinels. op names the
// failed operation for the wrapped message.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == "journal_entries_reversal_of_id_key" {
				return fmt.Errorf("%w: journal entry has already been reversed: %w", apperrors.ErrStateConflict, pgErr)
			}
			if pgErr.ConstraintName == "workflow_instances_one_active" {
				return fmt.Errorf("%w: resource already has a workflow in progress: %w", apperrors.ErrStateConflict, pgErr)
			}
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, op, pgErr.ConstraintName)
		case pgExclusionViolation:
			return fmt.Errorf("%w: fiscal period overlaps an existing period: %w", apperrors.ErrValidation, pgErr)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidation, op, pgErr.ConstraintName)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s was interrupted by a concurrent change: %w", apperrors.ErrStateConflict, op, pgErr)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
