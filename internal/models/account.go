package models

// Account is a row of gl_accounts. Reporting tags are stored as flat boolean columns.
type Account struct {
	AccountID           string  `db:"account_id"`
	OrganizationID      string  `db:"organization_id"`
	Code                string  `db:"code"`
	Name                string  `db:"name"`
	Classification      string  `db:"classification"`
	NormalBalance       string  `db:"normal_balance"`
	ParentAccountID     *string `db:"parent_account_id"` // Nullable
	Description         string  `db:"description"`
	IsActive            bool    `db:"is_active"`
	IsCash              bool    `db:"is_cash"`
	IsFixedAsset        bool    `db:"is_fixed_asset"`
	IsLongTermLiability bool    `db:"is_long_term_liability"`
	IsNonCashExpense    bool    `db:"is_non_cash_expense"`
	IsNonCashContra     bool    `db:"is_non_cash_contra"`
	AuditFields
}
