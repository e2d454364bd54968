package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// ReportingRepository aggregates posted ledger activity.
type ReportingRepository interface {
	// GetAccountActivity sums the debit and credit of POSTED lines per account
	// with from <= entry date <= to. Nil bounds are open. Accounts without
	// activity are omitted.
	GetAccountActivity(ctx context.Context, organizationID string, from, to *time.Time) ([]domain.AccountActivity, error)

	// GetRollupActivity sums POSTED lines of an account and all of its descendants up to asOf.
	GetRollupActivity(ctx context.Context, accountID string, asOf *time.Time) (debit, credit domain.Amount, err error)

	// GetLedgerVersion returns the organization's posted-ledger version.
	GetLedgerVersion(ctx context.Context, organizationID string) (int64, error)
}
