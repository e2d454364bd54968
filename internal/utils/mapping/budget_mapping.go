package mapping

import (
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/models"
)

// ToModelBudget converts a domain Budget (without lines) to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:       d.BudgetID,
		OrganizationID: d.OrganizationID,
		DepartmentID:   d.DepartmentID,
		FiscalYear:     d.FiscalYear,
		PeriodType:     string(d.PeriodType),
		TotalAmount:    d.TotalAmount.Decimal(),
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget and its line items to a domain Budget
func ToDomainBudget(m models.Budget, lines []models.BudgetLineItem) domain.Budget {
	b := domain.Budget{
		BudgetID:       m.BudgetID,
		OrganizationID: m.OrganizationID,
		DepartmentID:   m.DepartmentID,
		FiscalYear:     m.FiscalYear,
		PeriodType:     domain.BudgetPeriodType(m.PeriodType),
		TotalAmount:    ToAmount(m.TotalAmount),
		Status:         domain.BudgetStatus(m.Status),
		Lines:          make([]domain.BudgetLineItem, 0, len(lines)),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for _, l := range lines {
		b.Lines = append(b.Lines, domain.BudgetLineItem{
			LineItemID:   l.LineItemID,
			BudgetID:     l.BudgetID,
			GLAccountID:  l.GLAccountID,
			Q1Amount:     ToAmount(l.Q1Amount),
			Q2Amount:     ToAmount(l.Q2Amount),
			Q3Amount:     ToAmount(l.Q3Amount),
			Q4Amount:     ToAmount(l.Q4Amount),
			ActualAmount: ToAmount(l.ActualAmount),
		})
	}
	return b
}

// ToModelBudgetLineItem converts a domain BudgetLineItem to a model BudgetLineItem at position lineNo
func ToModelBudgetLineItem(budgetID string, d domain.BudgetLineItem, lineNo int) models.BudgetLineItem {
	return models.BudgetLineItem{
		LineItemID:   d.LineItemID,
		BudgetID:     budgetID,
		LineNo:       lineNo,
		GLAccountID:  d.GLAccountID,
		Q1Amount:     d.Q1Amount.Decimal(),
		Q2Amount:     d.Q2Amount.Decimal(),
		Q3Amount:     d.Q3Amount.Decimal(),
		Q4Amount:     d.Q4Amount.Decimal(),
		ActualAmount: d.ActualAmount.Decimal(),
	}
}
