package models

import "github.com/shopspring/decimal"

// Budget is a row of budgets.
type Budget struct {
	BudgetID       string          `db:"budget_id"`
	OrganizationID string          `db:"organization_id"`
	DepartmentID   string          `db:"department_id"`
	FiscalYear     int             `db:"fiscal_year"`
	PeriodType     string          `db:"period_type"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Status         string          `db:"status"`
	AuditFields
}

// BudgetLineItem is a row of budget_line_items.
type BudgetLineItem struct {
	LineItemID   string          `db:"line_item_id"`
	BudgetID     string          `db:"budget_id"`
	LineNo       int             `db:"line_no"`
	GLAccountID  string          `db:"gl_account_id"`
	Q1Amount     decimal.Decimal `db:"q1_amount"`
	Q2Amount     decimal.Decimal `db:"q2_amount"`
	Q3Amount     decimal.Decimal `db:"q3_amount"`
	Q4Amount     decimal.Decimal `db:"q4_amount"`
	ActualAmount decimal.Decimal `db:"actual_amount"`
}
