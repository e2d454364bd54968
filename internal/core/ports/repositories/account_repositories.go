package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within an organization.
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts at once, keyed by ID. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns the whole chart of an organization ordered by code.
	ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)

	// ListChildren returns the direct children of an account.
	ListChildren(ctx context.Context, accountID string) ([]domain.Account, error)

	// CountChildren returns the number of direct children of each given account.
	CountChildren(ctx context.Context, accountIDs []string) (map[string]int, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccountTags(ctx context.Context, accountID string, tags domain.AccountTags, updatedBy string, updatedAt time.Time) error
	DeactivateAccount(ctx context.Context, accountID string, updatedBy string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
