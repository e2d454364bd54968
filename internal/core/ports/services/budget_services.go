package services

import (
	"context"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/dto"
)

// BudgetSvc manages department budgets.
type BudgetSvc interface {
	CreateBudget(ctx context.Context, actor domain.Actor, req dto.CreateBudgetRequest) (*domain.Budget, error)
	GetBudget(ctx context.Context, actor domain.Actor, budgetID string) (*domain.Budget, error)
	// GetBudgetVariance compares each line's allocation with its actual amount.
	GetBudgetVariance(ctx context.Context, actor domain.Actor, budgetID string) (*domain.BudgetVariance, error)
}
