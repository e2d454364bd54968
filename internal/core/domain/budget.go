package domain

// BudgetPeriodType is the granularity a budget is planned at.
type BudgetPeriodType string

const (
	BudgetAnnual    BudgetPeriodType = "ANNUAL"
	BudgetQuarterly BudgetPeriodType = "QUARTERLY"
)

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetDraft  BudgetStatus = "DRAFT"
	BudgetActive BudgetStatus = "ACTIVE"
	BudgetClosed BudgetStatus = "CLOSED"
)

// Budget is a department's spending plan for a fiscal year.
type Budget struct {
	BudgetID       string           `json:"budgetID"`
	OrganizationID string           `json:"organizationID"`
	DepartmentID   string           `json:"departmentID"`
	FiscalYear     int              `json:"fiscalYear"`
	PeriodType     BudgetPeriodType `json:"periodType"`
	TotalAmount    Amount           `json:"totalAmount"`
	Status         BudgetStatus     `json:"status"`
	Lines          []BudgetLineItem `json:"lines"`
	AuditFields
}

// BudgetLineItem allocates part of a budget to one account by quarter.
// ActualAmount is maintained outside this service.
type BudgetLineItem struct {
	LineItemID   string `json:"lineItemID"`
	BudgetID     string `json:"budgetID"`
	GLAccountID  string `json:"glAccountID"`
	Q1Amount     Amount `json:"q1Amount"`
	Q2Amount     Amount `json:"q2Amount"`
	Q3Amount     Amount `json:"q3Amount"`
	Q4Amount     Amount `json:"q4Amount"`
	ActualAmount Amount `json:"actualAmount"`
}

// Allocated is the sum of the quarterly allocations.
func (l BudgetLineItem) Allocated() Amount {
	return l.Q1Amount + l.Q2Amount + l.Q3Amount + l.Q4Amount
}

// BudgetVarianceRow compares allocation against actual for one line.
type BudgetVarianceRow struct {
	GLAccountID string `json:"glAccountID"`
	Allocated   Amount `json:"allocated"`
	Actual      Amount `json:"actual"`
	Variance    Amount `json:"variance"`
}

// BudgetVariance is the allocation-versus-actual report of a budget.
type BudgetVariance struct {
	BudgetID       string              `json:"budgetID"`
	Rows           []BudgetVarianceRow `json:"rows"`
	TotalAllocated Amount              `json:"totalAllocated"`
	TotalActual    Amount              `json:"totalActual"`
	TotalVariance  Amount              `json:"totalVariance"`
}
