package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
)

// AccountReaderSvc defines read operations on the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account of the caller's organization.
	GetAccountByID(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	// ListAccounts returns the caller's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error)

	// ListChildren returns the direct children of an account.
	ListChildren(ctx context.Context, actor domain.Actor, accountID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations on the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount adds an account, deriving its normal balance from the classification.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccountTags replaces the cash flow tags of an account.
	UpdateAccountTags(ctx context.Context, actor domain.Actor, accountID string, tags domain.AccountTags) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Accounts with active children cannot be deactivated.
	DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error
}

// AccountBalanceSvc computes balances from posted lines.
type AccountBalanceSvc interface {
	// GetAccountBalance returns the normal-balance signed balance of an account up to asOf.
	// The balance of a parent account rolls up all of its descendants.
	GetAccountBalance(ctx context.Context, actor domain.Actor, accountID string, asOf *time.Time) (*dto.AccountBalanceResponse, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalanceSvc
}
