package domain

import "time"

// AccountActivity is the sum of posted debits and credits on one account over a window.
type AccountActivity struct {
	Account Account `json:"account"`
	Debit   Amount  `json:"debit"`
	Credit  Amount  `json:"credit"`
}

// Balance is the activity signed by the account's normal balance.
func (a AccountActivity) Balance() Amount {
	return a.Account.NormalBalance.Signed(a.Debit, a.Credit)
}

// NetDebit is debits minus credits regardless of polarity.
func (a AccountActivity) NetDebit() Amount {
	return a.Debit - a.Credit
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID      string         `json:"accountID"`
	Code           string         `json:"code"`
	AccountName    string         `json:"accountName"`
	Classification Classification `json:"classification"`
	NormalBalance  NormalBalance  `json:"normalBalance"`
	TotalDebit     Amount         `json:"totalDebit"`
	TotalCredit    Amount         `json:"totalCredit"`
	DebitBalance   Amount         `json:"debitBalance"`
	CreditBalance  Amount         `json:"creditBalance"`
}

// TrialBalance lists every account with posted activity and the column totals.
type TrialBalance struct {
	OrganizationID     string            `json:"organizationID"`
	AsOf               *time.Time        `json:"asOf,omitempty"`
	Rows               []TrialBalanceRow `json:"rows"`
	TotalDebitBalance  Amount            `json:"totalDebitBalance"`
	TotalCreditBalance Amount            `json:"totalCreditBalance"`
}

// StatementLine is one account's contribution to a statement section.
type StatementLine struct {
	AccountID string `json:"accountID,omitempty"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	Amount    Amount `json:"amount"`
}

// IncomeStatement reports revenue and expenses over [StartDate, EndDate].
type IncomeStatement struct {
	OrganizationID string          `json:"organizationID"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Revenue        []StatementLine `json:"revenue"`
	Expenses       []StatementLine `json:"expenses"`
	TotalRevenue   Amount          `json:"totalRevenue"`
	TotalExpenses  Amount          `json:"totalExpenses"`
	NetIncome      Amount          `json:"netIncome"`
}

// BalanceSheet reports cumulative positions as of a date.
type BalanceSheet struct {
	OrganizationID   string          `json:"organizationID"`
	AsOf             time.Time       `json:"asOf"`
	Assets           []StatementLine `json:"assets"`
	Liabilities      []StatementLine `json:"liabilities"`
	Equity           []StatementLine `json:"equity"`
	CurrentEarnings  Amount          `json:"currentEarnings"`
	TotalAssets      Amount          `json:"totalAssets"`
	TotalLiabilities Amount          `json:"totalLiabilities"`
	TotalEquity      Amount          `json:"totalEquity"`
}

// CashFlowStatement is an indirect-method cash flow statement for [StartDate, EndDate].
type CashFlowStatement struct {
	OrganizationID     string          `json:"organizationID"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	NetIncome          Amount          `json:"netIncome"`
	NonCashAdjustments []StatementLine `json:"nonCashAdjustments"`
	WorkingCapital     []StatementLine `json:"workingCapital"`
	TotalOperating     Amount          `json:"totalOperating"`
	Investing          []StatementLine `json:"investing"`
	TotalInvesting     Amount          `json:"totalInvesting"`
	Financing          []StatementLine `json:"financing"`
	TotalFinancing     Amount          `json:"totalFinancing"`
	NetChange          Amount          `json:"netChange"`
	CashBeginning      Amount          `json:"cashBeginning"`
	CashEnding         Amount          `json:"cashEnding"`
	CashChange         Amount          `json:"cashChange"`
	Reconciled         bool            `json:"reconciled"`
}
