package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// StatementSvc generates financial statements from the posted ledger.
// Reports failing an accounting identity are returned together with an ErrIntegrity error.
type StatementSvc interface {
	GetTrialBalance(ctx context.Context, actor domain.Actor, asOf *time.Time) (*domain.TrialBalance, error)
	GenerateIncomeStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.IncomeStatement, error)
	GenerateBalanceSheet(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.BalanceSheet, error)
	GenerateCashFlowStatement(ctx context.Context, actor domain.Actor, start, end time.Time) (*domain.CashFlowStatement, error)
}

// StatementCache stores generated statements keyed by ledger version.
type StatementCache interface {
	// Get loads the value stored under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
