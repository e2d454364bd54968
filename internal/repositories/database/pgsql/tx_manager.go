package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
)

type pgxTxManager struct {
	BaseRepository
}

func newPgxTxManager(pool DBPool) portsrepo.TransactionManager {
	return &pgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*pgxTxManager)(nil)

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, pgx.TxOptions{}, fn)
}

func (m *pgxTxManager) WithinReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (m *pgxTxManager) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.Pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx)
			panic(p)
		}
	}()

	if err = fn(withTx(ctx, tx)); err != nil {
		m.rollback(ctx, tx)
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

func (m *pgxTxManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.ErrorContext(ctx, "failed to rollback transaction", "error", err)
	}
}
