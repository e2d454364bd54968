package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type budgetService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	budgetRepo portsrepo.BudgetRepositoryFacade
	hierarchy  *AccountHierarchy
}

// NewBudgetService creates the budget service.
func NewBudgetService(txManager portsrepo.TransactionManager, budgetRepo portsrepo.BudgetRepositoryFacade, accountRepo portsrepo.AccountReader, options ...Option) portssvc.BudgetSvc {
	return &budgetService{
		BaseService: newBaseService(options),
		txManager:   txManager,
		budgetRepo:  budgetRepo,
		hierarchy:   NewAccountHierarchy(accountRepo),
	}
}

var _ portssvc.BudgetSvc = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, actor domain.Actor, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	const op = "create_budget"
	if len(req.Lines) == 0 {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("a budget needs at least one line"))
	}
	total, err := budgetAmount("total amount", req.TotalAmount)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	budgetID := uuid.NewString()
	lines := make([]domain.BudgetLineItem, 0, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	var allocated domain.Amount
	for i, l := range req.Lines {
		item := domain.BudgetLineItem{LineItemID: uuid.NewString(), BudgetID: budgetID, GLAccountID: l.GLAccountID}
		for _, f := range []struct {
			name string
			in   decimal.Decimal
			out  *domain.Amount
		}{
			{"q1", l.Q1Amount, &item.Q1Amount},
			{"q2", l.Q2Amount, &item.Q2Amount},
			{"q3", l.Q3Amount, &item.Q3Amount},
			{"q4", l.Q4Amount, &item.Q4Amount},
			{"actual", l.ActualAmount, &item.ActualAmount},
		} {
			if *f.out, err = budgetAmount(f.name, f.in); err != nil {
				return nil, s.fail(ctx, op, apperrors.NewValidationError("line %d: %s", i+1, apperrors.Message(err)))
			}
		}
		allocated += item.Allocated()
		lines = append(lines, item)
		accountIDs = append(accountIDs, l.GLAccountID)
	}
	if allocated > total {
		return nil, s.fail(ctx, op, apperrors.NewValidationError("allocated %s exceeds the budget total %s", allocated.Dollars(), total.Dollars()))
	}

	now := s.Now()
	budget := domain.Budget{
		BudgetID:       budgetID,
		OrganizationID: actor.OrganizationID,
		DepartmentID:   req.DepartmentID,
		FiscalYear:     req.FiscalYear,
		PeriodType:     domain.BudgetPeriodType(req.PeriodType),
		TotalAmount:    total,
		Status:         domain.BudgetDraft,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.hierarchy.ResolvePostable(ctx, actor.OrganizationID, accountIDs, true); err != nil {
			return err
		}
		return s.budgetRepo.SaveBudget(ctx, budget)
	})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.LogInfo(ctx, "Budget created",
		slog.String("budget_id", budgetID),
		slog.String("department_id", req.DepartmentID),
		slog.Int("fiscal_year", req.FiscalYear))
	s.audit(ctx, actor, domain.AuditBudgetCreated, "budget", budgetID, map[string]any{
		"total":     total.String(),
		"allocated": allocated.String(),
	})
	return &budget, nil
}

func budgetAmount(field string, d decimal.Decimal) (domain.Amount, error) {
	a, err := domain.AmountFromDecimal(d)
	if err != nil {
		return 0, apperrors.NewValidationError("%s: %s", field, err.Error())
	}
	if a < 0 {
		return 0, apperrors.NewValidationError("%s must not be negative", field)
	}
	return a, nil
}

func (s *budgetService) GetBudget(ctx context.Context, actor domain.Actor, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if err := sameOrganization(actor, budget.OrganizationID, "budget", budgetID); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) GetBudgetVariance(ctx context.Context, actor domain.Actor, budgetID string) (*domain.BudgetVariance, error) {
	budget, err := s.GetBudget(ctx, actor, budgetID)
	if err != nil {
		return nil, err
	}
	report := &domain.BudgetVariance{BudgetID: budgetID, Rows: make([]domain.BudgetVarianceRow, 0, len(budget.Lines))}
	for _, l := range budget.Lines {
		row := domain.BudgetVarianceRow{
			GLAccountID: l.GLAccountID,
			Allocated:   l.Allocated(),
			Actual:      l.ActualAmount,
		}
		row.Variance = row.Allocated - row.Actual
		report.Rows = append(report.Rows, row)
		report.TotalAllocated += row.Allocated
		report.TotalActual += row.Actual
	}
	report.TotalVariance = report.TotalAllocated - report.TotalActual
	return report, nil
}
