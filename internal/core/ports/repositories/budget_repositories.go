package repositories

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// BudgetReader defines read operations for budgets.
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
}

// BudgetWriter defines write operations for budgets.
type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
