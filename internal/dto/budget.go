package dto

import "github.com/shopspring/decimal"

// BudgetLineRequest allocates budget to one account by quarter.
type BudgetLineRequest struct {
	GLAccountID  string          `json:"glAccountID" binding:"required"`
	Q1Amount     decimal.Decimal `json:"q1Amount" binding:"money"`
	Q2Amount     decimal.Decimal `json:"q2Amount" binding:"money"`
	Q3Amount     decimal.Decimal `json:"q3Amount" binding:"money"`
	Q4Amount     decimal.Decimal `json:"q4Amount" binding:"money"`
	ActualAmount decimal.Decimal `json:"actualAmount" binding:"money"`
}

// CreateBudgetRequest defines a department budget.
type CreateBudgetRequest struct {
	DepartmentID string              `json:"departmentID" binding:"required"`
	FiscalYear   int                 `json:"fiscalYear" binding:"required,min=1900,max=9999"`
	PeriodType   string              `json:"periodType" binding:"required,oneof=ANNUAL QUARTERLY"`
	TotalAmount  decimal.Decimal     `json:"totalAmount" binding:"money"`
	Lines        []BudgetLineRequest `json:"lines" binding:"required,min=1,dive"`
}
